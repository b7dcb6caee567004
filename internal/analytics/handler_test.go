package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"campusmarket/internal/kafka"
)

type fakeService struct {
	prefs     []Preference
	err       error
	lastLimit int
}

func (f *fakeService) ProcessEvent(ctx context.Context, event kafka.Event) error {
	return f.err
}

func (f *fakeService) TopCategories(ctx context.Context, userID int64, limit int) ([]Preference, error) {
	f.lastLimit = limit
	return f.prefs, f.err
}

func TestHandler_Preferences(t *testing.T) {
	t.Parallel()

	svc := &fakeService{prefs: []Preference{
		{UserID: 4, Category: "books", Weight: 12},
	}}
	handler := NewHandler(svc, zaptest.NewLogger(t).Sugar())

	req := httptest.NewRequest("GET", "/analytics/users/4/preferences?top=3", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "4"})
	w := httptest.NewRecorder()

	handler.Preferences(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, svc.lastLimit)

	var resp struct {
		Success     bool         `json:"success"`
		UserID      int64        `json:"user_id"`
		Preferences []Preference `json:"preferences"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(4), resp.UserID)
	require.Len(t, resp.Preferences, 1)
	assert.Equal(t, "books", resp.Preferences[0].Category)
}

func TestHandler_Preferences_DefaultTop(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	handler := NewHandler(svc, zaptest.NewLogger(t).Sugar())

	req := httptest.NewRequest("GET", "/analytics/users/4/preferences?top=junk", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "4"})
	w := httptest.NewRecorder()

	handler.Preferences(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultTopCategories, svc.lastLimit)
}

func TestHandler_Preferences_BadID(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeService{}, zaptest.NewLogger(t).Sugar())

	req := httptest.NewRequest("GET", "/analytics/users/abc/preferences", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "abc"})
	w := httptest.NewRecorder()

	handler.Preferences(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
