package server

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sirahabazaar/delivery/internal/auth"
)

type AuditLogEntry struct {
	Timestamp  time.Time
	Handler    string
	Method     string
	Path       string
	StatusCode int
	UserID     int64
	Role       string
	OrderID    string
	DeliveryID string
	OldStatus  string
	NewStatus  string
	Request    string
	Response   string
	Duration   time.Duration
}

func (e AuditLogEntry) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddTime("timestamp", e.Timestamp)
	enc.AddString("handler", e.Handler)
	enc.AddString("method", e.Method)
	enc.AddString("path", e.Path)
	enc.AddInt("status_code", e.StatusCode)
	enc.AddDuration("duration", e.Duration)
	if e.UserID != 0 {
		enc.AddInt64("user_id", e.UserID)
		enc.AddString("role", e.Role)
	}
	if e.OrderID != "" {
		enc.AddString("order_id", e.OrderID)
	}
	if e.DeliveryID != "" {
		enc.AddString("delivery_id", e.DeliveryID)
	}
	if e.NewStatus != "" {
		enc.AddString("old_status", e.OldStatus)
		enc.AddString("new_status", e.NewStatus)
	}
	if e.Request != "" {
		enc.AddString("request", e.Request)
	}
	if e.Response != "" {
		enc.AddString("response", e.Response)
	}
	return nil
}

var _ zapcore.ObjectMarshaler = AuditLogEntry{}

type auditEntryKey struct{}

func withAuditEntry(ctx context.Context, e *AuditLogEntry) context.Context {
	return context.WithValue(ctx, auditEntryKey{}, e)
}

// annotateAudit records the verified caller on the in-flight entry. The
// principal only exists below the audit middleware, hence the pointer.
func annotateAudit(ctx context.Context, p *auth.Principal) {
	if e, ok := ctx.Value(auditEntryKey{}).(*AuditLogEntry); ok && e != nil {
		e.UserID = p.UserID
		e.Role = p.Role
	}
}

func auditField(e AuditLogEntry) zap.Field {
	return zap.Object("entry", e)
}
