package transport

import (
	"errors"
	"net/http"
	"strconv"

	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SignupRequest represents the signup request payload. Every key must be
// present but may hold an empty string; the password length rule is applied
// by the service.
type SignupRequest struct {
	Name     *string `json:"name" validate:"required"`
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// LoginRequest represents the login request payload. An empty email is
// looked up like any other and ends in "No user found!".
type LoginRequest struct {
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// MessageResponse is a bare {"message": ...} body
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public view of a user; the password never leaves the server
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.SignUp)
	r.Post("/login", h.Login)
	r.Get("/users/{id:[0-9]+}", h.GetUserByID)
}

// SignUp handles user registration
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Signup validation failed", zap.Error(err))
		middleware.RespondToDecodeError(w, err)
		return
	}

	user, err := h.userService.SignUp(r.Context(), *req.Name, *req.Email, *req.Password)
	switch {
	case err == nil:
		h.logger.Info("User signed up", zap.Int64("user_id", user.ID))
		middleware.RespondWithText(w, http.StatusOK, "User added successfully!")
	case errors.Is(err, repository.ErrUserAlreadyExists):
		middleware.RespondWithError(w, http.StatusBadRequest, "User with this email already exists!")
	case errors.Is(err, service.ErrPasswordTooShort):
		middleware.RespondWithError(w, http.StatusBadRequest, "Password cannot be less than 8 characters!")
	case errors.Is(err, service.ErrPasswordTooLong):
		middleware.RespondWithError(w, http.StatusBadRequest, "Password cannot be longer than 72 bytes!")
	case errors.Is(err, service.ErrCheckExistingUsers):
		h.logger.Error("Failed to check existing users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to check existing users.")
	default:
		h.logger.Error("Failed to add user", zap.Error(err))
		middleware.RespondWithText(w, http.StatusInternalServerError, "Failed to add user!")
	}
}

// Login handles user authentication
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		middleware.RespondToDecodeError(w, err)
		return
	}

	user, err := h.userService.Login(r.Context(), *req.Email, *req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "No user found!")
		case errors.Is(err, service.ErrInvalidCredentials):
			middleware.RespondWithError(w, http.StatusUnauthorized, "Incorrect password!")
		default:
			h.logger.Error("Login lookup failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "Database error occurred!")
		}
		return
	}

	h.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logged in successfully."})
}

// GetUserByID handles GET /users/{id}
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "No user found for provided ID!")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "No user found for provided ID!")
			return
		}
		h.logger.Error("Failed to get user", zap.Int64("user_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Database error!")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
}
