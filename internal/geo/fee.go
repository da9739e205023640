package geo

import "sort"

type Zone struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	MinDistance float64 `json:"minDistance"`
	MaxDistance float64 `json:"maxDistance"`
	BaseFee     float64 `json:"baseFee"`
	PerKmRate   float64 `json:"perKmRate"`
}

// Contains reports whether km falls inside the closed zone interval.
func (z Zone) Contains(km float64) bool {
	return z.MinDistance <= km && km <= z.MaxDistance
}

// CalculateFee picks the first zone by MinDistance containing km and charges
// base + km*rate. With no matching zone the default fee applies and zone is nil.
func CalculateFee(km float64, zones []Zone, defaultFee float64) (float64, *Zone) {
	sorted := make([]Zone, len(zones))
	copy(sorted, zones)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinDistance < sorted[j].MinDistance
	})

	for i := range sorted {
		if sorted[i].Contains(km) {
			z := sorted[i]
			return Round2(z.BaseFee + km*z.PerKmRate), &z
		}
	}
	return Round2(defaultFee), nil
}

// Estimate is the combined distance, fee and ETA for one trip.
type Estimate struct {
	DistanceKm    *float64 `json:"distanceKm"`
	EstimatedTime string   `json:"estimatedTime"`
	Fee           float64  `json:"fee"`
	Zone          *Zone    `json:"zone,omitempty"`
}

// EstimateTrip never fails: an unknown distance yields the default fee and an
// unknown ETA.
func EstimateTrip(from, to Point, zones []Zone, defaultFee float64) Estimate {
	km, ok := DistanceKm(from, to)
	if !ok {
		return UnknownEstimate(defaultFee)
	}
	fee, zone := CalculateFee(km, zones, defaultFee)
	return Estimate{
		DistanceKm:    &km,
		EstimatedTime: EstimateDeliveryTime(km),
		Fee:           fee,
		Zone:          zone,
	}
}

// UnknownEstimate is used when either endpoint has no coordinates.
func UnknownEstimate(defaultFee float64) Estimate {
	return Estimate{EstimatedTime: UnknownETA, Fee: Round2(defaultFee)}
}
