package rental

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"campusmarket/internal/contextutil"
	"campusmarket/internal/engagement"
	"campusmarket/internal/kafka"
	"campusmarket/internal/listing"
	rentRepo "campusmarket/internal/rental"
	myErr "campusmarket/internal/types/errors"
	typesRental "campusmarket/internal/types/rental"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RentalHandler struct {
	Logger     *zap.SugaredLogger
	RentalRepo rentRepo.RentalRepo
	Engagement engagement.EngagementRepo
	Events     kafka.EventProducer
}

func NewRentalHandler(
	l *zap.SugaredLogger,
	rr rentRepo.RentalRepo,
	er engagement.EngagementRepo,
	ep kafka.EventProducer,
) *RentalHandler {
	return &RentalHandler{
		Logger:     l,
		RentalRepo: rr,
		Engagement: er,
		Events:     ep,
	}
}

// List handles GET /marketplace/rentals.
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	plan := listing.CompileRentalFilters(r.URL.Query())

	rentals, err := h.RentalRepo.List(plan)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	total, err := h.RentalRepo.Count(plan)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	if q := r.URL.Query().Get("search"); q != "" {
		h.publishEvent(r, kafka.Event{
			Type:  kafka.EventTypeSearch,
			Kind:  listing.KindRental,
			Query: q,
		})
	}

	resp := struct {
		Success    bool               `json:"success"`
		Rentals    []rentRepo.Rental  `json:"rentals"`
		Pagination listing.Pagination `json:"pagination"`
	}{
		Success:    true,
		Rentals:    rentals,
		Pagination: listing.NewPagination(plan.Page, plan.Limit, total),
	}

	writeJSON(w, http.StatusOK, resp, h.Logger)
}

// GetByID handles GET /marketplace/rentals/{id}. Views come back already
// incremented for this fetch.
func (h *RentalHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	rental, err := h.RentalRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	views, err := h.Engagement.IncrementViews(r.Context(), listing.KindRental, id)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}
	rental.Views = views

	h.publishEvent(r, kafka.Event{
		Type:      kafka.EventTypeView,
		Kind:      listing.KindRental,
		ListingID: id,
	})

	resp := struct {
		Success bool            `json:"success"`
		Rental  rentRepo.Rental `json:"rental"`
	}{
		Success: true,
		Rental:  *rental,
	}

	writeJSON(w, http.StatusOK, resp, h.Logger)
}

// ToggleLike handles POST /marketplace/rentals/{id}/like.
func (h *RentalHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
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

	liked, _, err := h.Engagement.ToggleLike(r.Context(), listing.KindRental, id, userID)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	if liked {
		h.publishEvent(r, kafka.Event{
			Type:      kafka.EventTypeLike,
			Kind:      listing.KindRental,
			ListingID: id,
		})
	}

	message := "Rental unliked"
	if liked {
		message = "Rental liked"
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

// Create handles POST /marketplace/rentals.
func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input typesRental.CreateRental
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

	id, createdAt, err := h.RentalRepo.Create(userID, input)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	resp := struct {
		Success   bool      `json:"success"`
		Message   string    `json:"message"`
		RentalID  int64     `json:"rental_id"`
		CreatedAt time.Time `json:"created_at"`
	}{
		Success:   true,
		Message:   "Rental created successfully",
		RentalID:  id,
		CreatedAt: createdAt,
	}

	writeJSON(w, http.StatusCreated, resp, h.Logger)
	h.Logger.Infof("rental created: %d by user %d", id, userID)
}

func (h *RentalHandler) publishEvent(r *http.Request, event kafka.Event) {
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
