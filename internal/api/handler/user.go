// internal/api/handler/user.go
package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/omer1kenan/backend/internal/service"
	"github.com/omer1kenan/backend/internal/util"
)

// UserHandler handles HTTP requests for users, their contacts and credentials.
type UserHandler struct {
	responder
	service service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		responder: responder{logger: logger.With(zap.String("component", "user_handler"))},
		service:   svc,
	}
}

// ContactRequest is a contact inside a user request body.
type ContactRequest struct {
	Nickname    string `json:"nickname"`
	PhoneNumber string `json:"phoneNumber"`
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	UserName string           `json:"userName"`
	Email    string           `json:"email"`
	Credit   decimal.Decimal  `json:"credit"`
	Password string           `json:"password"`
	Contacts []ContactRequest `json:"contacts"`
}

// UpdateUserRequest represents the request body for updating a user.
// Omitted fields keep their stored value.
type UpdateUserRequest struct {
	UserName *string           `json:"userName"`
	Email    *string           `json:"email"`
	Credit   *decimal.Decimal  `json:"credit"`
	Contacts *[]ContactRequest `json:"contacts"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResetPasswordRequest represents the request body for a password reset.
type ResetPasswordRequest struct {
	UserID      string `json:"userId"`
	NewPassword string `json:"newPassword"`
}

func toContactInputs(in []ContactRequest) []service.ContactInput {
	out := make([]service.ContactInput, 0, len(in))
	for _, c := range in {
		out = append(out, service.ContactInput{Nickname: c.Nickname, PhoneNumber: c.PhoneNumber})
	}
	return out
}

// ListUsers handles GET /Users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, users)
}

// GetUser handles GET /Users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /Users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), service.CreateUserInput{
		UserName: req.UserName,
		Email:    req.Email,
		Credit:   req.Credit,
		Password: req.Password,
		Contacts: toContactInputs(req.Contacts),
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	w.Header().Set("Location", usersBase(r)+"/"+user.ID)
	h.respondWithJSON(w, http.StatusCreated, user)
}

// UpdateUser handles PUT /Users/{userId}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	in := service.UpdateUserInput{
		UserName: req.UserName,
		Email:    req.Email,
		Credit:   req.Credit,
	}
	if req.Contacts != nil {
		contacts := toContactInputs(*req.Contacts)
		in.Contacts = &contacts
	}

	if _, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "userId"), in); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser handles DELETE /Users/{userId}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "userId")); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Login handles POST /Users/login and answers a bare JSON boolean.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		h.respondWithError(w, r, fmt.Errorf("%w: username and password are required", util.ErrInvalidInput))
		return
	}

	ok, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, ok)
}

// ResetPassword handles POST /Users/reset-password.
// userId and newPassword come from the query string, or from a JSON body when absent there.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req := ResetPasswordRequest{
		UserID:      r.URL.Query().Get("userId"),
		NewPassword: r.URL.Query().Get("newPassword"),
	}
	if req.UserID == "" || req.NewPassword == "" {
		var body ResetPasswordRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.respondWithError(w, r, err)
			return
		}
		if req.UserID == "" {
			req.UserID = body.UserID
		}
		if req.NewPassword == "" {
			req.NewPassword = body.NewPassword
		}
	}
	if req.UserID == "" || req.NewPassword == "" {
		h.respondWithError(w, r, fmt.Errorf("%w: userId and newPassword are required", util.ErrInvalidInput))
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.UserID, req.NewPassword); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, "Password reset successful")
}

// AddContact handles POST /Users/{userId}/add-contact
func (h *UserHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	contact, err := h.service.AddContact(r.Context(), chi.URLParam(r, "userId"), service.ContactInput{
		Nickname:    req.Nickname,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, contact)
}

// DeleteContact handles DELETE /Users/{userId}/delete-contact/{contactId}
func (h *UserHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	contactID, err := int64Param(r, "contactId")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if err := h.service.DeleteContact(r.Context(), chi.URLParam(r, "userId"), contactID); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// usersBase returns the mount point the request came in on, "/Users" or "/users".
func usersBase(r *http.Request) string {
	if strings.HasPrefix(r.URL.Path, "/users") {
		return "/users"
	}
	return "/Users"
}
