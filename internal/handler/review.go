package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/echoserve/echoserve/internal/auth"
	"github.com/echoserve/echoserve/internal/handler/dto"
	"github.com/echoserve/echoserve/internal/model"
	"github.com/echoserve/echoserve/internal/store"
)

// ReviewStore is the slice of the store the review handler needs.
type ReviewStore interface {
	ListReviews(ctx context.Context, userEmail, serviceID string) ([]model.Review, error)
	GetReview(ctx context.Context, id string) (*model.Review, error)
	InsertReview(ctx context.Context, rev *model.Review) (*store.InsertResult, error)
	UpdateReview(ctx context.Context, id string, patch *model.ReviewPatch) (*store.UpdateResult, error)
	DeleteReview(ctx context.Context, id string) (*store.DeleteResult, error)
}

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	store    ReviewStore
	services ServiceLookup
	logger   *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(store ReviewStore, services ServiceLookup, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{store: store, services: services, logger: logger}
}

// Create handles POST /reviews. The reviewed service's title and image
// are copied into the review at this point; later edits of the service
// will not touch them.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svc, err := h.services.GetService(r.Context(), req.ServiceID)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	rev := model.Review{
		ServiceID: req.ServiceID,
		UserEmail: req.UserEmail,
		UserName:  req.UserName,
		Text:      req.Text,
		Rating:    req.Rating,
		Date:      time.Now().UTC(),
	}
	if svc != nil {
		rev.ServiceTitle = svc.ServiceTitle
		rev.ServiceImage = svc.ServiceImage
	}

	res, err := h.store.InsertReview(r.Context(), &rev)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("review_created", "review_id", res.InsertedID.Hex(), "service_id", req.ServiceID)
	writeJSON(w, http.StatusOK, dto.ToInsertResponse(res))
}

// List handles GET /reviews?userEmail=&serviceId= behind the auth gate.
// A userEmail filter naming someone other than the verified principal is
// rejected before any store read; filtering by service alone is open to
// any authenticated caller.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	query := r.URL.Query()
	userEmail := query.Get("userEmail")
	if userEmail != "" && userEmail != principal.Email {
		writeError(w, http.StatusForbidden, "forbidden access")
		return
	}

	reviews, err := h.store.ListReviews(r.Context(), userEmail, query.Get("serviceId"))
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// Update handles PATCH /reviews/{id} behind the auth gate. Only the
// reviewer may patch; text and rating are the only mutable fields and
// the date is refreshed.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.ReviewPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rev, err := h.store.GetReview(r.Context(), id)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}
	if rev == nil {
		writeJSON(w, http.StatusOK, dto.UpdateResponse{Acknowledged: true})
		return
	}
	if !ownsRecord(r.Context(), rev.UserEmail) {
		writeError(w, http.StatusForbidden, "forbidden access")
		return
	}

	res, err := h.store.UpdateReview(r.Context(), id, &patch)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("review_updated", "review_id", id)
	writeJSON(w, http.StatusOK, dto.ToUpdateResponse(res))
}

// Delete handles DELETE /reviews/{id} behind the auth gate. Deleting an
// already-deleted id acks with a zero count.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rev, err := h.store.GetReview(r.Context(), id)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}
	if rev == nil {
		writeJSON(w, http.StatusOK, dto.DeleteResponse{Acknowledged: true})
		return
	}
	if !ownsRecord(r.Context(), rev.UserEmail) {
		writeError(w, http.StatusForbidden, "forbidden access")
		return
	}

	res, err := h.store.DeleteReview(r.Context(), id)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("review_deleted", "review_id", id)
	writeJSON(w, http.StatusOK, dto.ToDeleteResponse(res))
}
