package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusFailed     TaskStatus = "FAILED"
	TaskStatusDone       TaskStatus = "DONE"
)

type OutboxTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Topic       string          `db:"topic"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

type EventType string

const (
	EventOrderReady         EventType = "order_ready"
	EventDeliveryAssigned   EventType = "delivery_assigned"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventDeliveryCancelled  EventType = "delivery_cancelled"
	EventDeliveryReassigned EventType = "delivery_reassigned"
	EventPartnerUnreachable EventType = "partner_unreachable"
)

// Recipient is a user that should hear about an event, tagged with the
// capacity they hear it in (customer, store_owner, delivery_partner, admin).
type Recipient struct {
	UserID int64  `json:"user_id,omitempty"`
	Role   string `json:"role"`
}

// DeliveryEvent is the outbox payload consumed by the notification dispatcher.
type DeliveryEvent struct {
	Type       EventType   `json:"type"`
	OrderID    int64       `json:"order_id"`
	DeliveryID int64       `json:"delivery_id,omitempty"`
	PartnerID  int64       `json:"partner_id,omitempty"`
	OldStatus  string      `json:"old_status,omitempty"`
	NewStatus  string      `json:"new_status,omitempty"`
	Message    string      `json:"message,omitempty"`
	Recipients []Recipient `json:"recipients"`
	OccurredAt time.Time   `json:"occurred_at"`
}
