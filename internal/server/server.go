//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/auth"
	"github.com/sirahabazaar/delivery/internal/geo"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

type Storage interface {
	ListAvailableOrders(ctx context.Context, actor storage.Actor) ([]storage.AvailableOrder, error)
	ClaimOrder(ctx context.Context, actor storage.Actor, orderID int64) (*storage.Delivery, error)
	UpdateOrderStatus(ctx context.Context, actor storage.Actor, orderID int64, newStatus string) (*storage.StatusChange, error)
	RecordLocation(ctx context.Context, actor storage.Actor, u storage.LocationUpdate) error
	GetTracking(ctx context.Context, actor storage.Actor, deliveryID int64) (*storage.Tracking, error)
	RegisterPartner(ctx context.Context, actor storage.Actor, reg storage.PartnerRegistration) (*storage.Partner, error)
	ListPartners(ctx context.Context, actor storage.Actor, status string) ([]storage.Partner, error)
	ApprovePartner(ctx context.Context, actor storage.Actor, partnerID int64) (*storage.Partner, error)
	RejectPartner(ctx context.Context, actor storage.Actor, partnerID int64, reason string) (*storage.Partner, error)
	SetAvailability(ctx context.Context, actor storage.Actor, available bool) (*storage.Partner, error)
	ListPartnerDeliveries(ctx context.Context, actor storage.Actor, activeOnly bool) ([]storage.Delivery, error)
	ReassignDelivery(ctx context.Context, actor storage.Actor, deliveryID, partnerID int64) (*storage.Delivery, error)
	ListZones(ctx context.Context) ([]storage.Zone, error)
	CreateZone(ctx context.Context, actor storage.Actor, zone storage.Zone) (*storage.Zone, error)
	UpdateZone(ctx context.Context, actor storage.Actor, zone storage.Zone) (*storage.Zone, error)
	DeleteZone(ctx context.Context, actor storage.Actor, id int64) error
	EstimateFee(fromLat, fromLon, toLat, toLon string) geo.Estimate
}

type UserRepo interface {
	Authenticate(ctx context.Context, username, password string) (*repository.User, error)
}

type Server struct {
	storage      Storage
	userRepo     UserRepo
	issuer       *auth.Issuer
	logger       *zap.Logger
	server       *http.Server
	AuditManager *AuditManager
}

func New(storage Storage, userRepo UserRepo, issuer *auth.Issuer, logger *zap.Logger) *Server {
	return &Server{
		storage:      storage,
		userRepo:     userRepo,
		issuer:       issuer,
		logger:       logger,
		AuditManager: NewAuditManager(logger.Named("audit"), 2, 5, 500*time.Millisecond),
	}
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.AuditManager.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", zap.String("port", port))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.AuditManager.Shutdown(ctx)
	s.logger.Info("http server shutdown completed")
	return nil
}

// Routes builds the full handler tree. Everything under /api except login,
// zone listing and fee estimates requires a bearer token.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()
	router.Use(s.auditLogMiddleware)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet).Name("health")
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost).Name("handleLogin")
	api.HandleFunc("/delivery-zones", s.handleListZones).Methods(http.MethodGet).Name("handleListZones")
	api.HandleFunc("/delivery-fee/estimate", s.handleEstimateFee).Methods(http.MethodGet).Name("handleEstimateFee")

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("/deliveries/available", s.handleAvailableOrders).Methods(http.MethodGet).Name("handleAvailableOrders")
	protected.HandleFunc("/deliveries/claim", s.handleClaimOrder).Methods(http.MethodPost).Name("handleClaimOrder")
	protected.HandleFunc("/orders/{id:[0-9]+}/status", s.handleUpdateOrderStatus).Methods(http.MethodPost).Name("handleUpdateOrderStatus")
	protected.HandleFunc("/tracking/location", s.handleRecordLocation).Methods(http.MethodPost).Name("handleRecordLocation")
	protected.HandleFunc("/tracking/{id:[0-9]+}", s.handleGetTracking).Methods(http.MethodGet).Name("handleGetTracking")
	protected.HandleFunc("/delivery-partners", s.handleRegisterPartner).Methods(http.MethodPost).Name("handleRegisterPartner")
	protected.HandleFunc("/delivery-partners/me/availability", s.handleSetAvailability).Methods(http.MethodPut).Name("handleSetAvailability")
	protected.HandleFunc("/delivery-partners/me/deliveries", s.handlePartnerDeliveries).Methods(http.MethodGet).Name("handlePartnerDeliveries")

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(s.adminOnlyMiddleware)
	admin.HandleFunc("/delivery-partners", s.handleListPartners).Methods(http.MethodGet).Name("handleListPartners")
	admin.HandleFunc("/delivery-partners/{id:[0-9]+}/approve", s.handleApprovePartner).Methods(http.MethodPost).Name("handleApprovePartner")
	admin.HandleFunc("/delivery-partners/{id:[0-9]+}/reject", s.handleRejectPartner).Methods(http.MethodPost).Name("handleRejectPartner")
	admin.HandleFunc("/deliveries/{id:[0-9]+}/reassign", s.handleReassignDelivery).Methods(http.MethodPost).Name("handleReassignDelivery")
	admin.HandleFunc("/delivery-zones", s.handleCreateZone).Methods(http.MethodPost).Name("handleCreateZone")
	admin.HandleFunc("/delivery-zones/{id:[0-9]+}", s.handleUpdateZone).Methods(http.MethodPut).Name("handleUpdateZone")
	admin.HandleFunc("/delivery-zones/{id:[0-9]+}", s.handleDeleteZone).Methods(http.MethodDelete).Name("handleDeleteZone")

	return router
}
