package product

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
	prodRepo "campusmarket/internal/product"
	myErr "campusmarket/internal/types/errors"
	typesProd "campusmarket/internal/types/product"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ProductHandler struct {
	Logger      *zap.SugaredLogger
	ProductRepo prodRepo.ProductRepo
	Engagement  engagement.EngagementRepo
	Events      kafka.EventProducer
}

func NewProductHandler(
	l *zap.SugaredLogger,
	pr prodRepo.ProductRepo,
	er engagement.EngagementRepo,
	ep kafka.EventProducer,
) *ProductHandler {
	return &ProductHandler{
		Logger:      l,
		ProductRepo: pr,
		Engagement:  er,
		Events:      ep,
	}
}

type listResponse struct {
	Success    bool               `json:"success"`
	Products   []prodRepo.Product `json:"products"`
	Pagination listing.Pagination `json:"pagination"`
}

// List handles GET /marketplace/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	plan := listing.CompileProductFilters(r.URL.Query())

	products, err := h.ProductRepo.List(plan)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	total, err := h.ProductRepo.Count(plan)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	if q := r.URL.Query().Get("search"); q != "" {
		h.publishEvent(r, kafka.Event{
			Type:     kafka.EventTypeSearch,
			Kind:     listing.KindProduct,
			Category: r.URL.Query().Get("category"),
			Query:    q,
		})
	}

	resp := listResponse{
		Success:    true,
		Products:   products,
		Pagination: listing.NewPagination(plan.Page, plan.Limit, total),
	}

	writeJSON(w, http.StatusOK, resp, h.Logger)
}

// GetByID handles GET /marketplace/products/{id}. The view counter is
// incremented before responding, so the returned views already include this
// fetch.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	p, err := h.ProductRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	views, err := h.Engagement.IncrementViews(r.Context(), listing.KindProduct, id)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}
	p.Views = views

	h.publishEvent(r, kafka.Event{
		Type:      kafka.EventTypeView,
		Kind:      listing.KindProduct,
		ListingID: id,
		Category:  p.Category,
	})

	resp := struct {
		Success bool             `json:"success"`
		Product prodRepo.Product `json:"product"`
	}{
		Success: true,
		Product: *p,
	}

	writeJSON(w, http.StatusOK, resp, h.Logger)
}

// ToggleLike handles POST /marketplace/products/{id}/like.
func (h *ProductHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
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

	liked, _, err := h.Engagement.ToggleLike(r.Context(), listing.KindProduct, id, userID)
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
			Kind:      listing.KindProduct,
			ListingID: id,
		}
		if p, err := h.ProductRepo.GetByID(id); err == nil {
			event.Category = p.Category
		}
		h.publishEvent(r, event)
	}

	message := "Product unliked"
	if liked {
		message = "Product liked"
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

// Create handles POST /marketplace/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input typesProd.CreateProduct
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

	id, createdAt, err := h.ProductRepo.Create(userID, input)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	resp := struct {
		Success   bool      `json:"success"`
		Message   string    `json:"message"`
		ProductID int64     `json:"product_id"`
		CreatedAt time.Time `json:"created_at"`
	}{
		Success:   true,
		Message:   "Product created successfully",
		ProductID: id,
		CreatedAt: createdAt,
	}

	writeJSON(w, http.StatusCreated, resp, h.Logger)
	h.Logger.Infof("product created: %d by user %d", id, userID)
}

// publishEvent stamps and sends an engagement event. Producer failures are
// logged by the producer and never affect the response.
func (h *ProductHandler) publishEvent(r *http.Request, event kafka.Event) {
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
