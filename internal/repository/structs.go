package repository

import (
	"errors"
	"time"
)

var (
	ErrObjectNotFound     = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

type Store struct {
	ID        int64    `db:"id"`
	OwnerID   int64    `db:"owner_id"`
	Name      string   `db:"name"`
	Address   string   `db:"address"`
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`
}

type Order struct {
	ID                  int64     `db:"id"`
	CustomerID          int64     `db:"customer_id"`
	StoreID             int64     `db:"store_id"`
	TotalAmount         float64   `db:"total_amount"`
	DeliveryFee         float64   `db:"delivery_fee"`
	PaymentMethod       string    `db:"payment_method"`
	Status              string    `db:"status"`
	CustomerName        string    `db:"customer_name"`
	Phone               string    `db:"phone"`
	ShippingAddress     string    `db:"shipping_address"`
	Latitude            *float64  `db:"latitude"`
	Longitude           *float64  `db:"longitude"`
	SpecialInstructions *string   `db:"special_instructions"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// AvailableOrder is an order joined with its store, as listed to partners.
type AvailableOrder struct {
	Order
	StoreName      string   `db:"store_name"`
	StoreAddress   string   `db:"store_address"`
	StoreLatitude  *float64 `db:"store_latitude"`
	StoreLongitude *float64 `db:"store_longitude"`
}

type OrderHistoryEntry struct {
	ID        int64     `db:"id"`
	OrderID   int64     `db:"order_id"`
	Status    string    `db:"status"`
	ChangedBy *int64    `db:"changed_by"`
	ChangedAt time.Time `db:"changed_at"`
}

type DeliveryPartner struct {
	ID               int64      `db:"id"`
	UserID           int64      `db:"user_id"`
	VehicleType      string     `db:"vehicle_type"`
	VehicleNumber    string     `db:"vehicle_number"`
	LicenseNumber    string     `db:"license_number"`
	Status           string     `db:"status"`
	IsAvailable      bool       `db:"is_available"`
	Rating           float64    `db:"rating"`
	TotalDeliveries  int        `db:"total_deliveries"`
	CurrentLatitude  *float64   `db:"current_latitude"`
	CurrentLongitude *float64   `db:"current_longitude"`
	RejectionReason  *string    `db:"rejection_reason"`
	ApprovedAt       *time.Time `db:"approved_at"`
	CreatedAt        time.Time  `db:"created_at"`
}

type Delivery struct {
	ID                 int64      `db:"id"`
	OrderID            int64      `db:"order_id"`
	DeliveryPartnerID  *int64     `db:"delivery_partner_id"`
	Status             string     `db:"status"`
	DeliveryFee        float64    `db:"delivery_fee"`
	PickupAddress      string     `db:"pickup_address"`
	DeliveryAddress    string     `db:"delivery_address"`
	EstimatedDistance  *float64   `db:"estimated_distance"`
	EstimatedTime      *string    `db:"estimated_time"`
	AssignedAt         *time.Time `db:"assigned_at"`
	PickedUpAt         *time.Time `db:"picked_up_at"`
	DeliveredAt        *time.Time `db:"delivered_at"`
	LastLatitude       *float64   `db:"last_latitude"`
	LastLongitude      *float64   `db:"last_longitude"`
	LastHeading        *float64   `db:"last_heading"`
	LastSpeed          *float64   `db:"last_speed"`
	LastAccuracy       *float64   `db:"last_accuracy"`
	LastLocationAt     *time.Time `db:"last_location_at"`
	PartnerUnreachable bool       `db:"partner_unreachable"`
	CreatedAt          time.Time  `db:"created_at"`
}

type DeliveryStatusEntry struct {
	ID          int64     `db:"id"`
	DeliveryID  int64     `db:"delivery_id"`
	Status      string    `db:"status"`
	Description *string   `db:"description"`
	UpdatedBy   *int64    `db:"updated_by"`
	ChangedAt   time.Time `db:"changed_at"`
}

type LocationSample struct {
	ID                int64     `db:"id"`
	DeliveryID        int64     `db:"delivery_id"`
	DeliveryPartnerID int64     `db:"delivery_partner_id"`
	Latitude          float64   `db:"latitude"`
	Longitude         float64   `db:"longitude"`
	Heading           *float64  `db:"heading"`
	Speed             *float64  `db:"speed"`
	Accuracy          *float64  `db:"accuracy"`
	RecordedAt        time.Time `db:"recorded_at"`
}

type DeliveryZone struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	MinDistance float64   `db:"min_distance"`
	MaxDistance float64   `db:"max_distance"`
	BaseFee     float64   `db:"base_fee"`
	PerKmRate   float64   `db:"per_km_rate"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}
