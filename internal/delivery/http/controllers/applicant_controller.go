package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"applicantdesk/internal/delivery/http/helpers"
	"applicantdesk/internal/delivery/http/middleware"
	"applicantdesk/internal/domain"
)

// maxBatchAdmit bounds one batch-admit request.
const maxBatchAdmit = 500

type ApplicantController struct {
	Logger  *slog.Logger
	Service domain.ApplicantService
}

func NewApplicantController(logger *slog.Logger, svc domain.ApplicantService) *ApplicantController {
	return &ApplicantController{
		Logger:  logger,
		Service: svc,
	}
}

// ListApplicantsResponse is the data object for GET /applicants.
type ListApplicantsResponse struct {
	Items      []*domain.Applicant    `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// List godoc
// @Summary List applicants
// @Description Newest first. q matches email or full name, case-insensitively.
// @Tags applicants
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size (max 200)" default(50)
// @Success 200 {object} helpers.APIResponse "data is ListApplicantsResponse"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applicants [get]
func (c *ApplicantController) List(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParseApplicantListParams(r)
	items, total, err := c.Service.List(r.Context(), params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list applicants")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListApplicantsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params.Pagination, total),
	})
}

// Get godoc
// @Summary Get one applicant
// @Tags applicants
// @Produce json
// @Security BearerAuth
// @Param applicantID path string true "Applicant ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is the applicant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applicants/{applicantID} [get]
func (c *ApplicantController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := applicantIDFromPath(w, r)
	if !ok {
		return
	}
	a, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, a)
}

// DecisionRequest is the request body for POST /applicants/{applicantID}/decision.
type DecisionRequest struct {
	Decision string  `json:"decision"`
	Note     *string `json:"note,omitempty"`
}

// Validate implements helpers.Validator.
func (d *DecisionRequest) Validate() []string {
	d.Decision = strings.ToLower(strings.TrimSpace(d.Decision))
	if d.Decision == "" {
		return []string{"decision is required"}
	}
	if !domain.Decision(d.Decision).Valid() {
		return []string{`decision must be "accepted", "waitlisted" or "denied"`}
	}
	return nil
}

// Decide godoc
// @Summary Record a decision
// @Description Sets the applicant status and emails the decision. Accepting issues a QR check-in token, reusing an existing one.
// @Tags applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicantID path string true "Applicant ID (UUID)"
// @Param body body DecisionRequest true "Decision"
// @Success 200 {object} helpers.APIResponse "data is the updated applicant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applicants/{applicantID}/decision [post]
func (c *ApplicantController) Decide(w http.ResponseWriter, r *http.Request) {
	id, ok := applicantIDFromPath(w, r)
	if !ok {
		return
	}
	var req DecisionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	organizer, ok := middleware.OrganizerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	a, err := c.Service.Decide(r.Context(), id, domain.Decision(req.Decision), req.Note, organizer)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, a)
}

// BatchAdmitRequest is the request body for POST /applicants/batch-admit.
type BatchAdmitRequest struct {
	ApplicantIDs  []string `json:"applicant_ids"`
	OrganizerName string   `json:"organizer_name,omitempty"`
}

// Validate implements helpers.Validator.
func (b *BatchAdmitRequest) Validate() []string {
	if len(b.ApplicantIDs) == 0 {
		return []string{"applicant_ids is required"}
	}
	if len(b.ApplicantIDs) > maxBatchAdmit {
		return []string{"at most 500 applicant_ids per request"}
	}
	return nil
}

// BatchAdmit godoc
// @Summary Admit a batch of applicants
// @Description Accepts every pending applicant in the list whose email is not on the exclusion list. Each applicant is processed independently and failures are reported per email.
// @Tags applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BatchAdmitRequest true "Applicant IDs"
// @Success 200 {object} helpers.APIResponse "data is domain.BatchAdmitResult"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applicants/batch-admit [post]
func (c *ApplicantController) BatchAdmit(w http.ResponseWriter, r *http.Request) {
	var req BatchAdmitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	organizer := strings.TrimSpace(req.OrganizerName)
	if organizer == "" {
		organizer, _ = middleware.OrganizerFromContext(r.Context())
	}
	res, err := c.Service.BatchAdmit(r.Context(), req.ApplicantIDs, organizer)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

func (c *ApplicantController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrApplicantNotFound), errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "applicant not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "applicant was changed concurrently, retry")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "request failed")
	}
}

func applicantIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("applicantID")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing applicantID")
		return "", false
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid applicantID")
		return "", false
	}
	return parsed.String(), true
}
