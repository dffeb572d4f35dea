package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// RegisterUserRequest is the request body for POST /users/register.
type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=organizer participant"`
}

// Validate implements Validator.
func (r *RegisterUserRequest) Validate() []string {
	return helpers.ValidateStruct(r)
}

// LoginRequest is the request body for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate implements Validator.
func (r *LoginRequest) Validate() []string {
	return helpers.ValidateStruct(r)
}

// UserResponse is the success body of POST /users/register (201).
type UserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// LoginResponse is the success body of POST /users/login (200).
type LoginResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a user
// @Description Creates an account. Role defaults to participant. The password hash is never returned.
// @Tags users
// @Accept json
// @Produce json
// @Param user body RegisterUserRequest true "Account data"
// @Success 201 {object} controllers.UserResponse
// @Failure 400 {object} helpers.ErrorResponse "validation failed or email already exists"
// @Failure 429 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /users/register [post]
func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			helpers.WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("User with email %s already exists", req.Email))
		case errors.Is(err, domain.ErrInvalidRole):
			helpers.WriteJSONError(w, http.StatusBadRequest, "Role must be one of: organizer, participant")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteInternalError(w, "Error registering user", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, UserResponse{
		Message: "User registered successfully! Please login to continue.",
		User:    user,
	})
}

// Login godoc
// @Summary Log in
// @Description Verifies email and password and returns a bearer token valid for the configured TTL.
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Email and password"
// @Success 200 {object} controllers.LoginResponse
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 401 {object} helpers.ErrorResponse "invalid email or password"
// @Failure 429 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /users/login [post]
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteInternalError(w, "Error logging in", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}
