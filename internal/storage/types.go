package storage

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirahabazaar/delivery/internal/geo"
	"github.com/sirahabazaar/delivery/internal/repository"
)

const (
	RoleCustomer        = "customer"
	RoleStoreOwner      = "store_owner"
	RoleDeliveryPartner = "delivery_partner"
	RoleAdmin           = "admin"
)

// Actor is the authenticated caller. Role comes from a verified token only.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type AvailableOrder struct {
	OrderID             int64        `json:"orderId"`
	StoreID             int64        `json:"storeId"`
	StoreName           string       `json:"storeName"`
	PickupAddress       string       `json:"pickupAddress"`
	DeliveryAddress     string       `json:"deliveryAddress"`
	CustomerName        string       `json:"customerName"`
	Phone               string       `json:"phone"`
	TotalAmount         float64      `json:"totalAmount"`
	PaymentMethod       string       `json:"paymentMethod"`
	SpecialInstructions *string      `json:"specialInstructions,omitempty"`
	Estimate            geo.Estimate `json:"estimate"`
	CreatedAt           time.Time    `json:"createdAt"`
}

type Location struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Heading    *float64  `json:"heading,omitempty"`
	Speed      *float64  `json:"speed,omitempty"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

type Delivery struct {
	ID                 int64      `json:"id"`
	OrderID            int64      `json:"orderId"`
	DeliveryPartnerID  *int64     `json:"deliveryPartnerId"`
	Status             string     `json:"status"`
	DeliveryFee        float64    `json:"deliveryFee"`
	PickupAddress      string     `json:"pickupAddress"`
	DeliveryAddress    string     `json:"deliveryAddress"`
	EstimatedDistance  *float64   `json:"estimatedDistance"`
	EstimatedTime      *string    `json:"estimatedTime"`
	AssignedAt         *time.Time `json:"assignedAt"`
	PickedUpAt         *time.Time `json:"pickedUpAt"`
	DeliveredAt        *time.Time `json:"deliveredAt"`
	LastLocation       *Location  `json:"lastLocation"`
	PartnerUnreachable bool       `json:"partnerUnreachable"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type DeliveryStatusEntry struct {
	Status      string    `json:"status"`
	Description *string   `json:"description,omitempty"`
	UpdatedBy   *int64    `json:"updatedBy,omitempty"`
	ChangedAt   time.Time `json:"changedAt"`
}

type OrderStatusEntry struct {
	Status    string    `json:"status"`
	ChangedBy *int64    `json:"changedBy,omitempty"`
	ChangedAt time.Time `json:"changedAt"`
}

// Tracking is the customer-facing view of one delivery.
type Tracking struct {
	Delivery            Delivery              `json:"delivery"`
	CurrentLocation     *Location             `json:"currentLocation"`
	Route               []Location            `json:"route"`
	StatusHistory       []DeliveryStatusEntry `json:"statusHistory"`
	OrderHistory        []OrderStatusEntry    `json:"orderHistory"`
	RemainingDistanceKm *float64              `json:"remainingDistanceKm"`
	EstimatedTime       string                `json:"estimatedTime"`
}

type StatusChange struct {
	OrderID    int64  `json:"orderId"`
	OldStatus  string `json:"oldStatus"`
	NewStatus  string `json:"newStatus"`
	DeliveryID *int64 `json:"deliveryId,omitempty"`
}

// LocationUpdate is one GPS sample posted by a partner device.
type LocationUpdate struct {
	DeliveryID        int64
	DeliveryPartnerID int64
	Latitude          float64
	Longitude         float64
	Heading           *float64
	Speed             *float64
	Accuracy          *float64
}

func (u LocationUpdate) Validate() error {
	if u.DeliveryID <= 0 || u.DeliveryPartnerID <= 0 {
		return fmt.Errorf("%w: deliveryId and deliveryPartnerId are required", ErrValidation)
	}
	if !(geo.Point{Lat: u.Latitude, Lon: u.Longitude}).Valid() {
		return fmt.Errorf("%w: latitude must be in [-90,90] and longitude in [-180,180]", ErrValidation)
	}
	if u.Heading != nil && !inRange(*u.Heading, 0, 360) {
		return fmt.Errorf("%w: heading must be in [0,360]", ErrValidation)
	}
	if u.Speed != nil && !inRange(*u.Speed, 0, math.MaxFloat64) {
		return fmt.Errorf("%w: speed must not be negative", ErrValidation)
	}
	if u.Accuracy != nil && !inRange(*u.Accuracy, 0, math.MaxFloat64) {
		return fmt.Errorf("%w: accuracy must not be negative", ErrValidation)
	}
	return nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

type Partner struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"userId"`
	VehicleType      string     `json:"vehicleType"`
	VehicleNumber    string     `json:"vehicleNumber"`
	LicenseNumber    string     `json:"licenseNumber"`
	Status           string     `json:"status"`
	IsAvailable      bool       `json:"isAvailable"`
	Eligible         bool       `json:"eligible"`
	Rating           float64    `json:"rating"`
	TotalDeliveries  int        `json:"totalDeliveries"`
	CurrentLatitude  *float64   `json:"currentLatitude"`
	CurrentLongitude *float64   `json:"currentLongitude"`
	RejectionReason  *string    `json:"rejectionReason,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type PartnerRegistration struct {
	VehicleType   string
	VehicleNumber string
	LicenseNumber string
}

func (r PartnerRegistration) Validate() error {
	if strings.TrimSpace(r.VehicleType) == "" ||
		strings.TrimSpace(r.VehicleNumber) == "" ||
		strings.TrimSpace(r.LicenseNumber) == "" {
		return fmt.Errorf("%w: vehicleType, vehicleNumber and licenseNumber are required", ErrValidation)
	}
	return nil
}

type Zone struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	MinDistance float64 `json:"minDistance"`
	MaxDistance float64 `json:"maxDistance"`
	BaseFee     float64 `json:"baseFee"`
	PerKmRate   float64 `json:"perKmRate"`
	IsActive    bool    `json:"isActive"`
}

func (z Zone) Validate() error {
	switch {
	case strings.TrimSpace(z.Name) == "":
		return fmt.Errorf("%w: zone name is required", ErrValidation)
	case z.MinDistance < 0 || z.MaxDistance < z.MinDistance:
		return fmt.Errorf("%w: zone distances must satisfy 0 <= minDistance <= maxDistance", ErrValidation)
	case z.BaseFee < 0 || z.PerKmRate < 0:
		return fmt.Errorf("%w: baseFee and perKmRate must not be negative", ErrValidation)
	}
	return nil
}

// IsEligible is the only rule deciding whether a partner may see or claim
// new orders.
func IsEligible(p *repository.DeliveryPartner) bool {
	return p != nil && p.Status == PartnerApproved && p.IsAvailable
}

func toDelivery(d *repository.Delivery) Delivery {
	out := Delivery{
		ID:                 d.ID,
		OrderID:            d.OrderID,
		DeliveryPartnerID:  d.DeliveryPartnerID,
		Status:             d.Status,
		DeliveryFee:        d.DeliveryFee,
		PickupAddress:      d.PickupAddress,
		DeliveryAddress:    d.DeliveryAddress,
		EstimatedDistance:  d.EstimatedDistance,
		EstimatedTime:      d.EstimatedTime,
		AssignedAt:         d.AssignedAt,
		PickedUpAt:         d.PickedUpAt,
		DeliveredAt:        d.DeliveredAt,
		PartnerUnreachable: d.PartnerUnreachable,
		CreatedAt:          d.CreatedAt,
	}
	if d.LastLatitude != nil && d.LastLongitude != nil && d.LastLocationAt != nil {
		out.LastLocation = &Location{
			Latitude:   *d.LastLatitude,
			Longitude:  *d.LastLongitude,
			Heading:    d.LastHeading,
			Speed:      d.LastSpeed,
			Accuracy:   d.LastAccuracy,
			RecordedAt: *d.LastLocationAt,
		}
	}
	return out
}

func toPartner(p *repository.DeliveryPartner) Partner {
	return Partner{
		ID:               p.ID,
		UserID:           p.UserID,
		VehicleType:      p.VehicleType,
		VehicleNumber:    p.VehicleNumber,
		LicenseNumber:    p.LicenseNumber,
		Status:           p.Status,
		IsAvailable:      p.IsAvailable,
		Eligible:         IsEligible(p),
		Rating:           p.Rating,
		TotalDeliveries:  p.TotalDeliveries,
		CurrentLatitude:  p.CurrentLatitude,
		CurrentLongitude: p.CurrentLongitude,
		RejectionReason:  p.RejectionReason,
		ApprovedAt:       p.ApprovedAt,
		CreatedAt:        p.CreatedAt,
	}
}

func toZone(z *repository.DeliveryZone) Zone {
	return Zone{
		ID:          z.ID,
		Name:        z.Name,
		MinDistance: z.MinDistance,
		MaxDistance: z.MaxDistance,
		BaseFee:     z.BaseFee,
		PerKmRate:   z.PerKmRate,
		IsActive:    z.IsActive,
	}
}
