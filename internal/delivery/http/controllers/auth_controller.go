package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "applicantdesk/internal/delivery/http/helpers"
	"applicantdesk/internal/domain"
)

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, "name is required")
	}
	if l.Passphrase == "" {
		errs = append(errs, "passphrase is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Login godoc
// @Summary Organizer log in
// @Description Exchange the shared organizer passphrase for a bearer token. The name is recorded on decisions made with the token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Organizer name and passphrase"
// @Success 200 {object} helpers.APIResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Login(r.Context(), req.Name, req.Passphrase)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			c.Logger.WarnContext(r.Context(), "failed organizer login", "name", strings.TrimSpace(req.Name))
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "login failed")
		}
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer"})
}
