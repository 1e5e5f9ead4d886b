package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/echoserve/echoserve/internal/auth"
	"github.com/echoserve/echoserve/internal/model"
	"github.com/echoserve/echoserve/internal/store"
)

type fakeServiceStore struct {
	getFn    func(ctx context.Context, id string) (*model.Service, error)
	listFn   func(ctx context.Context, ownerEmail string, limit int64) ([]model.Service, error)
	insertFn func(ctx context.Context, svc *model.Service) (*store.InsertResult, error)
	updateFn func(ctx context.Context, id string, patch *model.ServicePatch) (*store.UpdateResult, error)
	deleteFn func(ctx context.Context, id string) (*store.DeleteResult, error)

	listCalls int
}

func (f *fakeServiceStore) GetService(ctx context.Context, id string) (*model.Service, error) {
	return f.getFn(ctx, id)
}

func (f *fakeServiceStore) ListServices(ctx context.Context, ownerEmail string, limit int64) ([]model.Service, error) {
	f.listCalls++
	return f.listFn(ctx, ownerEmail, limit)
}

func (f *fakeServiceStore) InsertService(ctx context.Context, svc *model.Service) (*store.InsertResult, error) {
	return f.insertFn(ctx, svc)
}

func (f *fakeServiceStore) UpdateService(ctx context.Context, id string, patch *model.ServicePatch) (*store.UpdateResult, error) {
	return f.updateFn(ctx, id, patch)
}

func (f *fakeServiceStore) DeleteService(ctx context.Context, id string) (*store.DeleteResult, error) {
	return f.deleteFn(ctx, id)
}

// withPrincipal simulates a request that passed the auth gate.
func withPrincipal(req *http.Request, email string) *http.Request {
	ctx := auth.ContextWithPrincipal(req.Context(), &model.Principal{Email: email, Subject: "uid"})
	return req.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestServiceHandler_ListOwnedForbiddenOnMismatch(t *testing.T) {
	fake := &fakeServiceStore{
		listFn: func(ctx context.Context, ownerEmail string, limit int64) ([]model.Service, error) {
			return nil, nil
		},
	}
	h := NewServiceHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/services?email=b@x.com", nil)
	req = withPrincipal(req, "a@x.com")
	rec := httptest.NewRecorder()
	h.ListOwned(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
	if fake.listCalls != 0 {
		t.Errorf("store read must not execute on mismatch, got %d calls", fake.listCalls)
	}
}

func TestServiceHandler_ListOwned(t *testing.T) {
	fake := &fakeServiceStore{
		listFn: func(ctx context.Context, ownerEmail string, limit int64) ([]model.Service, error) {
			if ownerEmail != "a@x.com" {
				t.Errorf("unexpected owner filter: %q", ownerEmail)
			}
			if limit != 6 {
				t.Errorf("unexpected limit: %d", limit)
			}
			return []model.Service{{UserEmail: ownerEmail, ServiceTitle: "Plumbing"}}, nil
		},
	}
	h := NewServiceHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/services?email=a@x.com&limit=6", nil)
	req = withPrincipal(req, "a@x.com")
	rec := httptest.NewRecorder()
	h.ListOwned(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var services []model.Service
	if err := json.NewDecoder(rec.Body).Decode(&services); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(services) != 1 || services[0].ServiceTitle != "Plumbing" {
		t.Errorf("unexpected listing: %+v", services)
	}
}

func TestServiceHandler_ListFilteredIgnoresBadLimit(t *testing.T) {
	fake := &fakeServiceStore{
		listFn: func(ctx context.Context, ownerEmail string, limit int64) ([]model.Service, error) {
			if limit != 0 {
				t.Errorf("expected bad limit to be ignored, got %d", limit)
			}
			return []model.Service{}, nil
		},
	}
	h := NewServiceHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sixServices?limit=nope", nil)
	rec := httptest.NewRecorder()
	h.ListFiltered(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestServiceHandler_GetAbsentReturnsNull(t *testing.T) {
	fake := &fakeServiceStore{
		getFn: func(ctx context.Context, id string) (*model.Service, error) {
			return nil, nil
		},
	}
	h := NewServiceHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/services/656e6f7468696e67", nil)
	req = withURLParam(req, "id", "656e6f7468696e67")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Errorf("expected null body, got %q", body)
	}
}

func TestServiceHandler_GetInvalidID(t *testing.T) {
	fake := &fakeServiceStore{
		getFn: func(ctx context.Context, id string) (*model.Service, error) {
			return nil, store.ErrInvalidID
		},
	}
	h := NewServiceHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/services/not-hex", nil)
	req = withURLParam(req, "id", "not-hex")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for malformed id, got %d", rec.Code)
	}
}

func TestServiceHandler_UpdatePartialPatch(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	fake := &fakeServiceStore{
		getFn: func(ctx context.Context, gotID string) (*model.Service, error) {
			return &model.Service{UserEmail: "a@x.com", ServiceTitle: "Plumbing"}, nil
		},
		updateFn: func(ctx context.Context, gotID string, patch *model.ServicePatch) (*store.UpdateResult, error) {
			if patch.ServiceTitle == nil || *patch.ServiceTitle != "Emergency Plumbing" {
				t.Errorf("expected title in patch, got %+v", patch)
			}
			if patch.Price != nil || patch.Category != nil || patch.Description != nil {
				t.Errorf("unsupplied fields must stay nil: %+v", patch)
			}
			return &store.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		},
	}
	h := NewServiceHandler(fake, testLogger())

	body := `{"serviceTitle":"Emergency Plumbing"}`
	req := httptest.NewRequest(http.MethodPatch, "/services/"+id, strings.NewReader(body))
	req = withPrincipal(req, "a@x.com")
	req = withURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["matchedCount"] != float64(1) || resp["modifiedCount"] != float64(1) {
		t.Errorf("unexpected update ack: %v", resp)
	}
}

func TestServiceHandler_UpdateForbiddenForNonOwner(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	updated := false
	fake := &fakeServiceStore{
		getFn: func(ctx context.Context, gotID string) (*model.Service, error) {
			return &model.Service{UserEmail: "owner@x.com"}, nil
		},
		updateFn: func(ctx context.Context, gotID string, patch *model.ServicePatch) (*store.UpdateResult, error) {
			updated = true
			return &store.UpdateResult{}, nil
		},
	}
	h := NewServiceHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodPatch, "/services/"+id, strings.NewReader(`{"serviceTitle":"x"}`))
	req = withPrincipal(req, "intruder@x.com")
	req = withURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
	if updated {
		t.Error("update must not execute for a non-owner")
	}
}

func TestServiceHandler_UpdateEmptyPatch(t *testing.T) {
	h := NewServiceHandler(&fakeServiceStore{}, testLogger())

	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodPatch, "/services/"+id, strings.NewReader(`{}`))
	req = withPrincipal(req, "a@x.com")
	req = withURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for empty patch, got %d", rec.Code)
	}
}

func TestServiceHandler_DeleteAbsentAcksZero(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	fake := &fakeServiceStore{
		getFn: func(ctx context.Context, gotID string) (*model.Service, error) {
			return nil, nil
		},
	}
	h := NewServiceHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/services/"+id, nil)
	req = withPrincipal(req, "a@x.com")
	req = withURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["deletedCount"] != float64(0) {
		t.Errorf("expected zero deleted count, got %v", resp["deletedCount"])
	}
}

func TestServiceHandler_DeleteOwned(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	fake := &fakeServiceStore{
		getFn: func(ctx context.Context, gotID string) (*model.Service, error) {
			return &model.Service{UserEmail: "a@x.com"}, nil
		},
		deleteFn: func(ctx context.Context, gotID string) (*store.DeleteResult, error) {
			return &store.DeleteResult{DeletedCount: 1}, nil
		},
	}
	h := NewServiceHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/services/"+id, nil)
	req = withPrincipal(req, "a@x.com")
	req = withURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["deletedCount"] != float64(1) {
		t.Errorf("expected one deleted record, got %v", resp["deletedCount"])
	}
}
