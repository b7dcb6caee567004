package business

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	bizRepo "campusmarket/internal/business"
	"campusmarket/internal/contextutil"
	"campusmarket/internal/engagement"
	"campusmarket/internal/kafka"
	"campusmarket/internal/listing"
	typesBiz "campusmarket/internal/types/business"
	myErr "campusmarket/internal/types/errors"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type BusinessHandler struct {
	Logger       *zap.SugaredLogger
	BusinessRepo bizRepo.BusinessRepo
	Engagement   engagement.EngagementRepo
	Events       kafka.EventProducer
}

func NewBusinessHandler(
	l *zap.SugaredLogger,
	br bizRepo.BusinessRepo,
	er engagement.EngagementRepo,
	ep kafka.EventProducer,
) *BusinessHandler {
	return &BusinessHandler{
		Logger:       l,
		BusinessRepo: br,
		Engagement:   er,
		Events:       ep,
	}
}

// List handles GET /marketplace/businesses.
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	plan := listing.CompileBusinessFilters(r.URL.Query())

	businesses, err := h.BusinessRepo.List(plan)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	total, err := h.BusinessRepo.Count(plan)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	if q := r.URL.Query().Get("search"); q != "" {
		h.publishEvent(r, kafka.Event{
			Type:     kafka.EventTypeSearch,
			Kind:     listing.KindBusiness,
			Category: r.URL.Query().Get("category"),
			Query:    q,
		})
	}

	resp := struct {
		Success    bool               `json:"success"`
		Businesses []bizRepo.Business `json:"businesses"`
		Pagination listing.Pagination `json:"pagination"`
	}{
		Success:    true,
		Businesses: businesses,
		Pagination: listing.NewPagination(plan.Page, plan.Limit, total),
	}

	writeJSON(w, http.StatusOK, resp, h.Logger)
}

// GetByID handles GET /marketplace/businesses/{id}. Views come back already
// incremented for this fetch.
func (h *BusinessHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	b, err := h.BusinessRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	views, err := h.Engagement.IncrementViews(r.Context(), listing.KindBusiness, id)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}
	b.Views = views

	h.publishEvent(r, kafka.Event{
		Type:      kafka.EventTypeView,
		Kind:      listing.KindBusiness,
		ListingID: id,
		Category:  b.Category,
	})

	resp := struct {
		Success  bool             `json:"success"`
		Business bizRepo.Business `json:"business"`
	}{
		Success:  true,
		Business: *b,
	}

	writeJSON(w, http.StatusOK, resp, h.Logger)
}

// ToggleLike handles POST /marketplace/businesses/{id}/like.
func (h *BusinessHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	liked, _, err := h.Engagement.ToggleLike(r.Context(), listing.KindBusiness, id, userID)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	if liked {
		event := kafka.Event{
			Type:      kafka.EventTypeLike,
			Kind:      listing.KindBusiness,
			ListingID: id,
		}
		if b, err := h.BusinessRepo.GetByID(id); err == nil {
			event.Category = b.Category
		}
		h.publishEvent(r, event)
	}

	message := "Business unliked"
	if liked {
		message = "Business liked"
	}

	resp := struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Liked   bool   `json:"liked"`
	}{
		Success: true,
		Message: message,
		Liked:   liked,
	}

	writeJSON(w, http.StatusOK, resp, h.Logger)
}

// Create handles POST /marketplace/businesses.
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input typesBiz.CreateBusiness
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	if missing := input.MissingFields(); len(missing) > 0 {
		myErr.SendErrorTo(w, myErr.NewValidationError(missing...), http.StatusBadRequest, h.Logger)
		return
	}

	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	id, createdAt, err := h.BusinessRepo.Create(userID, input)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	resp := struct {
		Success    bool      `json:"success"`
		Message    string    `json:"message"`
		BusinessID int64     `json:"business_id"`
		CreatedAt  time.Time `json:"created_at"`
	}{
		Success:    true,
		Message:    "Business created successfully",
		BusinessID: id,
		CreatedAt:  createdAt,
	}

	writeJSON(w, http.StatusCreated, resp, h.Logger)
	h.Logger.Infof("business created: %d by user %d", id, userID)
}

func (h *BusinessHandler) publishEvent(r *http.Request, event kafka.Event) {
	if userID, ok := contextutil.GetUserIDFromContext(r.Context()); ok {
		event.UserID = userID
	}
	event.Timestamp = time.Now()
	_ = h.Events.SendEvent(r.Context(), event) // nolint:errcheck
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *zap.SugaredLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}
