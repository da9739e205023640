package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/sirahabazaar/delivery/internal/metrics"
	"github.com/sirahabazaar/delivery/internal/storage"
)

const redacted = "[redacted]"

// auditLogMiddleware runs after route matching, so the route name and
// template are available.
func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		entry := &AuditLogEntry{
			Timestamp: started.UTC(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Handler:   "unknown",
		}
		template := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if name := route.GetName(); name != "" {
				entry.Handler = name
			}
			if tpl, err := route.GetPathTemplate(); err == nil {
				template = tpl
			}
		}
		if entry.Handler == "metrics" || entry.Handler == "health" {
			next.ServeHTTP(w, r)
			return
		}

		sensitive := entry.Handler == "handleLogin"
		if r.Body != nil && !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			requestBody, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = string(requestBody)
			fillIDsFromBody(entry, requestBody)
		}
		fillIDsFromPath(entry, r)
		if sensitive {
			entry.Request = redacted
		}

		wrw := newResponseWriterWrapper(w)
		next.ServeHTTP(wrw, r.WithContext(withAuditEntry(r.Context(), entry)))

		entry.StatusCode = wrw.GetStatusCode()
		entry.Duration = time.Since(started)
		entry.Response = string(wrw.GetBody())
		if sensitive {
			entry.Response = redacted
		}
		if entry.Handler == "handleUpdateOrderStatus" && entry.StatusCode == http.StatusOK {
			var change storage.StatusChange
			if err := json.Unmarshal(wrw.GetBody(), &change); err == nil {
				entry.OldStatus = change.OldStatus
				entry.NewStatus = change.NewStatus
			}
		}

		metrics.HTTPRequestsTotal.WithLabelValues(template, strconv.Itoa(entry.StatusCode)).Inc()
		s.AuditManager.LogEntry(r.Context(), *entry)
	})
}

func fillIDsFromPath(entry *AuditLogEntry, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		return
	}
	switch {
	case strings.Contains(entry.Path, "/orders/"):
		entry.OrderID = id
	case strings.Contains(entry.Path, "/tracking/"), strings.Contains(entry.Path, "/deliveries/"):
		entry.DeliveryID = id
	}
}

func fillIDsFromBody(entry *AuditLogEntry, body []byte) {
	var ids struct {
		OrderID    int64 `json:"orderId"`
		DeliveryID int64 `json:"deliveryId"`
	}
	if len(body) == 0 || json.Unmarshal(body, &ids) != nil {
		return
	}
	if ids.OrderID > 0 {
		entry.OrderID = strconv.FormatInt(ids.OrderID, 10)
	}
	if ids.DeliveryID > 0 {
		entry.DeliveryID = strconv.FormatInt(ids.DeliveryID, 10)
	}
}
