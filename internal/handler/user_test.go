package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/echoserve/echoserve/internal/model"
	"github.com/echoserve/echoserve/internal/store"
)

type fakeUserStore struct {
	createFn func(ctx context.Context, user *model.User) (*store.InsertResult, error)
	existsFn func(ctx context.Context, email string) (bool, error)
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *model.User) (*store.InsertResult, error) {
	return f.createFn(ctx, user)
}

func (f *fakeUserStore) UserExists(ctx context.Context, email string) (bool, error) {
	return f.existsFn(ctx, email)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUserHandler_Create(t *testing.T) {
	id := primitive.NewObjectID()
	fake := &fakeUserStore{
		createFn: func(ctx context.Context, user *model.User) (*store.InsertResult, error) {
			if user.Email != "a@x.com" {
				t.Errorf("unexpected email: %q", user.Email)
			}
			return &store.InsertResult{InsertedID: id}, nil
		},
	}
	h := NewUserHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":"a@x.com","name":"A"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["insertedId"] != id.Hex() {
		t.Errorf("expected inserted id %q, got %v", id.Hex(), resp["insertedId"])
	}
	if resp["acknowledged"] != true {
		t.Errorf("expected acknowledged insert, got %v", resp["acknowledged"])
	}
}

func TestUserHandler_CreateDuplicate(t *testing.T) {
	fake := &fakeUserStore{
		createFn: func(ctx context.Context, user *model.User) (*store.InsertResult, error) {
			return nil, store.ErrEmailExists
		},
	}
	h := NewUserHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":"a@x.com"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["message"] != "user already exists" {
		t.Errorf("unexpected message: %q", resp["message"])
	}
}

func TestUserHandler_CreateMissingEmail(t *testing.T) {
	h := NewUserHandler(&fakeUserStore{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"A"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestUserHandler_Exists(t *testing.T) {
	fake := &fakeUserStore{
		existsFn: func(ctx context.Context, email string) (bool, error) {
			return email == "a@x.com", nil
		},
	}
	h := NewUserHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/users?email=a@x.com", nil)
	rec := httptest.NewRecorder()
	h.Exists(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["exists"] {
		t.Error("expected exists to be true")
	}
}

func TestUserHandler_ExistsMissingEmail(t *testing.T) {
	called := false
	fake := &fakeUserStore{
		existsFn: func(ctx context.Context, email string) (bool, error) {
			called = true
			return false, nil
		},
	}
	h := NewUserHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	h.Exists(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if called {
		t.Error("store should not be consulted without an email")
	}
}
