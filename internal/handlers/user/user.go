package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"

	"campusmarket/internal/contextutil"
	"campusmarket/internal/session"
	myErr "campusmarket/internal/types/errors"
	types "campusmarket/internal/types/user"
	"campusmarket/internal/user"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const minPasswordLength = 6

// authResponse is the body of successful signup and login responses.
type authResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    *user.User `json:"user"`
}

type UserHandler struct {
	Logger         *zap.SugaredLogger
	UserRepository user.UserRepo
	SessionManager session.SessionRepo
}

func NewUserHandler(l *zap.SugaredLogger, ur user.UserRepo, sr session.SessionRepo) *UserHandler {
	return &UserHandler{
		Logger:         l,
		UserRepository: ur,
		SessionManager: sr,
	}
}

// Signup handles POST /auth/signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var form types.CreateUser
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	var missing []string
	if form.Name == "" {
		missing = append(missing, "name")
	}
	if form.Email == "" {
		missing = append(missing, "email")
	}
	if form.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		myErr.SendErrorTo(w, myErr.NewValidationError(missing...), http.StatusBadRequest, h.Logger)
		return
	}

	if _, err := mail.ParseAddress(form.Email); err != nil {
		myErr.SendErrorTo(w, err, http.StatusBadRequest, h.Logger)
		return
	}
	if len(form.Password) < minPasswordLength {
		myErr.SendErrorTo(w, errors.New("password must be at least 6 characters long"), http.StatusBadRequest, h.Logger)
		return
	}

	u, err := h.UserRepository.CreateUser(form)
	if err != nil {
		if errors.Is(err, myErr.ErrAlreadyExists) {
			myErr.SendErrorTo(w, errors.New("user already exists with this email"), http.StatusBadRequest, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	sess, token, err := h.SessionManager.CreateSession(r.Context(), u.ID, u.Email, u.Role)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(authResponse{
		Message: "User created successfully",
		Token:   token,
		User:    u,
	}); err != nil {
		h.Logger.Errorf("Failed to encode signup response: %v", err)
		return
	}

	h.Logger.Infof("created session %s for new user %d", sess.ID, u.ID)
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	u, err := h.UserRepository.CheckUser(form.Email, form.Password)
	if err != nil {
		// Invalid email and wrong password look identical to the client.
		if errors.Is(err, myErr.ErrNotFound) || errors.Is(err, myErr.ErrBadPassword) {
			myErr.SendErrorTo(w, errors.New("invalid email or password"), http.StatusUnauthorized, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	sess, token, err := h.SessionManager.CreateSession(r.Context(), u.ID, u.Email, u.Role)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(authResponse{
		Message: "Login successful",
		Token:   token,
		User:    u,
	}); err != nil {
		h.Logger.Errorf("Failed to encode login response: %v", err)
		return
	}

	h.Logger.Infof("created session %s for user %d", sess.ID, u.ID)
}

// Profile handles GET /auth/profile for the authenticated user.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	userInfo, err := h.UserRepository.Info(userID)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(struct {
		User *user.User `json:"user"`
	}{User: userInfo}); err != nil {
		h.Logger.Errorf("Failed to encode profile response: %v", err)
	}
}

// Info handles GET /users/{id}.
func (h *UserHandler) Info(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	userInfo, err := h.UserRepository.Info(id)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userInfo); err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}
}

// ChangeProfile handles PUT /users/{id}. Users may only change their own
// profile.
func (h *UserHandler) ChangeProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok || userID != id {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusForbidden, h.Logger)
		return
	}

	var form types.ChangeUser
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	if form.Email != "" {
		if _, err := mail.ParseAddress(form.Email); err != nil {
			myErr.SendErrorTo(w, err, http.StatusBadRequest, h.Logger)
			return
		}
	}

	updated, err := h.UserRepository.ChangeProfile(id, form)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}
}
