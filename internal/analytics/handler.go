package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	myErr "campusmarket/internal/types/errors"
)

const defaultTopCategories = 5

type Handler struct {
	Service AnalyticsService
	Logger  *zap.SugaredLogger
}

func NewHandler(service AnalyticsService, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Service: service,
		Logger:  logger,
	}
}

// Preferences handles GET /analytics/users/{user_id}/preferences?top=N.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["user_id"], 10, 64)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	top := defaultTopCategories
	if raw := r.URL.Query().Get("top"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			top = parsed
		}
	}

	prefs, err := h.Service.TopCategories(r.Context(), userID, top)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	resp := struct {
		Success     bool         `json:"success"`
		UserID      int64        `json:"user_id"`
		Preferences []Preference `json:"preferences"`
	}{
		Success:     true,
		UserID:      userID,
		Preferences: prefs,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Errorf("Failed to encode preferences response: %v", err)
	}
}
