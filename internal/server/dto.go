package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirahabazaar/delivery/internal/storage"
)

const maxBodyBytes = 1 << 20

type validator interface {
	Validate() error
}

// decodeJSON rejects unknown fields and validates before any business logic
// sees the request.
func decodeJSON(r *http.Request, dst validator) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", storage.ErrValidation, err)
	}
	return dst.Validate()
}

func required(field string) error {
	return fmt.Errorf("%w: %s is required", storage.ErrValidation, field)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return required("username and password")
	}
	return nil
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	UserID    int64  `json:"userId"`
	Role      string `json:"role"`
}

type claimRequest struct {
	OrderID int64 `json:"orderId"`
}

func (r claimRequest) Validate() error {
	if r.OrderID <= 0 {
		return required("orderId")
	}
	return nil
}

type statusRequest struct {
	Status string `json:"status"`
}

func (r statusRequest) Validate() error {
	if strings.TrimSpace(r.Status) == "" {
		return required("status")
	}
	return nil
}

type locationRequest struct {
	DeliveryID        int64    `json:"deliveryId"`
	DeliveryPartnerID int64    `json:"deliveryPartnerId"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Heading           *float64 `json:"heading"`
	Speed             *float64 `json:"speed"`
	Accuracy          *float64 `json:"accuracy"`
}

func (r locationRequest) Validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return required("latitude and longitude")
	}
	return r.toUpdate().Validate()
}

func (r locationRequest) toUpdate() storage.LocationUpdate {
	u := storage.LocationUpdate{
		DeliveryID:        r.DeliveryID,
		DeliveryPartnerID: r.DeliveryPartnerID,
		Heading:           r.Heading,
		Speed:             r.Speed,
		Accuracy:          r.Accuracy,
	}
	if r.Latitude != nil {
		u.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		u.Longitude = *r.Longitude
	}
	return u
}

type partnerRequest struct {
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
	LicenseNumber string `json:"licenseNumber"`
}

func (r partnerRequest) Validate() error {
	return r.toRegistration().Validate()
}

func (r partnerRequest) toRegistration() storage.PartnerRegistration {
	return storage.PartnerRegistration{
		VehicleType:   strings.TrimSpace(r.VehicleType),
		VehicleNumber: strings.TrimSpace(r.VehicleNumber),
		LicenseNumber: strings.TrimSpace(r.LicenseNumber),
	}
}

type availabilityRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}

func (r availabilityRequest) Validate() error {
	if r.IsAvailable == nil {
		return required("isAvailable")
	}
	return nil
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (r rejectRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return required("reason")
	}
	return nil
}

type reassignRequest struct {
	DeliveryPartnerID int64 `json:"deliveryPartnerId"`
}

func (r reassignRequest) Validate() error {
	if r.DeliveryPartnerID <= 0 {
		return required("deliveryPartnerId")
	}
	return nil
}

type zoneRequest struct {
	Name        string   `json:"name"`
	MinDistance *float64 `json:"minDistance"`
	MaxDistance *float64 `json:"maxDistance"`
	BaseFee     *float64 `json:"baseFee"`
	PerKmRate   *float64 `json:"perKmRate"`
	IsActive    *bool    `json:"isActive"`
}

func (r zoneRequest) Validate() error {
	if r.MinDistance == nil || r.MaxDistance == nil || r.BaseFee == nil || r.PerKmRate == nil {
		return required("minDistance, maxDistance, baseFee and perKmRate")
	}
	return r.toZone(0).Validate()
}

// toZone defaults isActive to true.
func (r zoneRequest) toZone(id int64) storage.Zone {
	z := storage.Zone{ID: id, Name: strings.TrimSpace(r.Name), IsActive: true}
	if r.MinDistance != nil {
		z.MinDistance = *r.MinDistance
	}
	if r.MaxDistance != nil {
		z.MaxDistance = *r.MaxDistance
	}
	if r.BaseFee != nil {
		z.BaseFee = *r.BaseFee
	}
	if r.PerKmRate != nil {
		z.PerKmRate = *r.PerKmRate
	}
	if r.IsActive != nil {
		z.IsActive = *r.IsActive
	}
	return z
}
