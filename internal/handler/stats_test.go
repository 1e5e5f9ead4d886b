package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/echoserve/echoserve/internal/store"
)

type fakeStatsStore struct {
	counts *store.Counts
	err    error
}

func (f *fakeStatsStore) EstimatedCounts(ctx context.Context) (*store.Counts, error) {
	return f.counts, f.err
}

func TestStatsHandler_Stats(t *testing.T) {
	fake := &fakeStatsStore{counts: &store.Counts{Users: 3, Services: 7, Reviews: 11}}
	h := NewStatsHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/platform-stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]int64
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["users"] != 3 || resp["services"] != 7 || resp["reviews"] != 11 {
		t.Errorf("unexpected counts: %v", resp)
	}
}

func TestStatsHandler_StoreFailure(t *testing.T) {
	fake := &fakeStatsStore{err: errors.New("mongo down")}
	h := NewStatsHandler(fake, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/platform-stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
}
