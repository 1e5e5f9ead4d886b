package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/echoserve/echoserve/internal/auth"
	"github.com/echoserve/echoserve/internal/handler/dto"
	"github.com/echoserve/echoserve/internal/model"
	"github.com/echoserve/echoserve/internal/store"
)

// ServiceLookup is the single-read slice of the service store. The
// review handler shares it for denormalization at review creation.
type ServiceLookup interface {
	GetService(ctx context.Context, id string) (*model.Service, error)
}

// ServiceStore is the slice of the store the service handler needs.
type ServiceStore interface {
	ServiceLookup
	ListServices(ctx context.Context, ownerEmail string, limit int64) ([]model.Service, error)
	InsertService(ctx context.Context, svc *model.Service) (*store.InsertResult, error)
	UpdateService(ctx context.Context, id string, patch *model.ServicePatch) (*store.UpdateResult, error)
	DeleteService(ctx context.Context, id string) (*store.DeleteResult, error)
}

// ServiceHandler handles HTTP requests for service listings.
type ServiceHandler struct {
	store  ServiceStore
	logger *slog.Logger
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(store ServiceStore, logger *slog.Logger) *ServiceHandler {
	return &ServiceHandler{store: store, logger: logger}
}

// ListAll handles GET /allServices.
func (h *ServiceHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	services, err := h.store.ListServices(r.Context(), "", 0)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// ListFiltered handles GET /sixServices?email=&limit=. Both parameters
// are optional; an unparseable limit is ignored.
func (h *ServiceHandler) ListFiltered(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	services, err := h.store.ListServices(r.Context(), query.Get("email"), parseLimit(query.Get("limit")))
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// ListOwned handles GET /services?email=&limit= behind the auth gate.
// The email filter must match the verified principal; on mismatch the
// request is rejected before any store read.
func (h *ServiceHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	query := r.URL.Query()
	email := query.Get("email")
	if email != principal.Email {
		writeError(w, http.StatusForbidden, "forbidden access")
		return
	}

	services, err := h.store.ListServices(r.Context(), email, parseLimit(query.Get("limit")))
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// Create handles POST /services.
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var svc model.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.store.InsertService(r.Context(), &svc)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("service_created", "service_id", res.InsertedID.Hex(), "owner", svc.UserEmail)
	writeJSON(w, http.StatusOK, dto.ToInsertResponse(res))
}

// Get handles GET /services/{id}. An absent id answers with a JSON null
// body, matching the store's single-read result.
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.store.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}
	if svc == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Update handles PATCH /services/{id} behind the auth gate. Only the
// record's owner may patch it, and only the whitelisted display fields
// are ever written.
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.ServicePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no updatable fields in body")
		return
	}

	svc, err := h.store.GetService(r.Context(), id)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}
	if svc == nil {
		writeJSON(w, http.StatusOK, dto.UpdateResponse{Acknowledged: true})
		return
	}
	if !ownsRecord(r.Context(), svc.UserEmail) {
		writeError(w, http.StatusForbidden, "forbidden access")
		return
	}

	res, err := h.store.UpdateService(r.Context(), id, &patch)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("service_updated", "service_id", id)
	writeJSON(w, http.StatusOK, dto.ToUpdateResponse(res))
}

// Delete handles DELETE /services/{id} behind the auth gate. Deleting an
// already-deleted id acks with a zero count.
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	svc, err := h.store.GetService(r.Context(), id)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}
	if svc == nil {
		writeJSON(w, http.StatusOK, dto.DeleteResponse{Acknowledged: true})
		return
	}
	if !ownsRecord(r.Context(), svc.UserEmail) {
		writeError(w, http.StatusForbidden, "forbidden access")
		return
	}

	res, err := h.store.DeleteService(r.Context(), id)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("service_deleted", "service_id", id)
	writeJSON(w, http.StatusOK, dto.ToDeleteResponse(res))
}

// ownsRecord reports whether the verified principal's email matches the
// stored owner email.
func ownsRecord(ctx context.Context, ownerEmail string) bool {
	principal := auth.PrincipalFromContext(ctx)
	return principal != nil && principal.Email == ownerEmail
}

// parseLimit turns the limit query parameter into a row cap.
// Absent, unparseable or non-positive values mean no cap.
func parseLimit(raw string) int64 {
	if raw == "" {
		return 0
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
