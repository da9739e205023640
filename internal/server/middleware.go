package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/auth"
	"github.com/sirahabazaar/delivery/internal/storage"
)

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := s.issuer.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			s.logger.Debug("unauthenticated request", zap.String("path", r.URL.Path), zap.Error(err))
			w.Header().Set("WWW-Authenticate", `Bearer realm="siraha"`)
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Code: "unauthorized"})
			return
		}

		annotateAudit(r.Context(), p)
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}

func (s *Server) adminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r).IsAdmin() {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required", Code: "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// actorFrom trusts only the principal placed by authMiddleware.
func actorFrom(r *http.Request) storage.Actor {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		return storage.Actor{}
	}
	return storage.Actor{UserID: p.UserID, Role: p.Role}
}
