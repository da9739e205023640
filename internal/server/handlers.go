package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/storage"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", storage.ErrValidation)
	}
	return id, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.userRepo.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	token, expiresAt, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	respondJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		UserID:    user.ID,
		Role:      user.Role,
	})
}

func (s *Server) handleAvailableOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.storage.ListAvailableOrders(r.Context(), actorFrom(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleClaimOrder(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	delivery, err := s.storage.ClaimOrder(r.Context(), actorFrom(r), req.OrderID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, delivery)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	change, err := s.storage.UpdateOrderStatus(r.Context(), actorFrom(r), orderID, req.Status)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, change)
}

// handleRecordLocation answers with a bare acknowledgement only.
func (s *Server) handleRecordLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.storage.RecordLocation(r.Context(), actorFrom(r), req.toUpdate()); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleGetTracking(w http.ResponseWriter, r *http.Request) {
	deliveryID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	tracking, err := s.storage.GetTracking(r.Context(), actorFrom(r), deliveryID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tracking)
}

func (s *Server) handleRegisterPartner(w http.ResponseWriter, r *http.Request) {
	var req partnerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	partner, err := s.storage.RegisterPartner(r.Context(), actorFrom(r), req.toRegistration())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, partner)
}

func (s *Server) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	partner, err := s.storage.SetAvailability(r.Context(), actorFrom(r), *req.IsAvailable)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, partner)
}

func (s *Server) handlePartnerDeliveries(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	deliveries, err := s.storage.ListPartnerDeliveries(r.Context(), actorFrom(r), activeOnly)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deliveries)
}

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.storage.ListPartners(r.Context(), actorFrom(r), r.URL.Query().Get("status"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, partners)
}

func (s *Server) handleApprovePartner(w http.ResponseWriter, r *http.Request) {
	partnerID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	partner, err := s.storage.ApprovePartner(r.Context(), actorFrom(r), partnerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, partner)
}

func (s *Server) handleRejectPartner(w http.ResponseWriter, r *http.Request) {
	partnerID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	partner, err := s.storage.RejectPartner(r.Context(), actorFrom(r), partnerID, req.Reason)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, partner)
}

func (s *Server) handleReassignDelivery(w http.ResponseWriter, r *http.Request) {
	deliveryID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req reassignRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	delivery, err := s.storage.ReassignDelivery(r.Context(), actorFrom(r), deliveryID, req.DeliveryPartnerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, delivery)
}

func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := s.storage.ListZones(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, zones)
}

func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var req zoneRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	zone, err := s.storage.CreateZone(r.Context(), actorFrom(r), req.toZone(0))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, zone)
}

func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	zoneID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req zoneRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	zone, err := s.storage.UpdateZone(r.Context(), actorFrom(r), req.toZone(zoneID))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, zone)
}

func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	zoneID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.storage.DeleteZone(r.Context(), actorFrom(r), zoneID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEstimateFee never fails: malformed coordinates fall back to the
// default fee and an unknown time.
func (s *Server) handleEstimateFee(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	estimate := s.storage.EstimateFee(q.Get("fromLat"), q.Get("fromLon"), q.Get("toLat"), q.Get("toLon"))
	respondJSON(w, http.StatusOK, estimate)
}
