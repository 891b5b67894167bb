package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"applicantdesk/internal/delivery/http/helpers"
	"applicantdesk/internal/delivery/http/middleware"
	"applicantdesk/internal/domain"
)

// Reasons reported to scanner stations when a check-in is not credited.
const (
	ReasonAlreadyCheckedIn = "ALREADY_CHECKED_IN"
	ReasonNotFound         = "NOT_FOUND"
)

// CheckInRequest is the request body for POST /checkin.
type CheckInRequest struct {
	// Token is the QR token, or the raw scanned QR text.
	Token   string `json:"token"`
	MealTag string `json:"meal_tag,omitempty"`
}

// Validate implements helpers.Validator. It also normalizes the token from raw QR text.
func (r *CheckInRequest) Validate() []string {
	var errs []string
	r.Token = domain.ParseQRPayload(r.Token)
	if r.Token == "" {
		errs = append(errs, "token is required")
	}
	r.MealTag = strings.TrimSpace(r.MealTag)
	if r.MealTag != "" && !domain.MealTag(r.MealTag).Valid() {
		errs = append(errs, "meal_tag must be one of sat_breakfast, sat_lunch, sat_dinner, sun_breakfast, sun_lunch")
	}
	return errs
}

// CheckInResponse is the data object for POST /checkin.
// swagger:model CheckInResponse
type CheckInResponse struct {
	OK            bool                  `json:"ok"`
	RecordID      string                `json:"record_id,omitempty"`
	MealTag       domain.MealTag        `json:"meal_tag,omitempty"`
	DisplayFields *domain.DisplayFields `json:"display_fields,omitempty"`
	Reason        string                `json:"reason,omitempty"`
}

// CheckInEnvelope documents the envelope returned by POST /checkin.
type CheckInEnvelope struct {
	Data  *CheckInResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type CheckInController struct {
	Logger  *slog.Logger
	Service domain.CheckInService
}

func NewCheckInController(logger *slog.Logger, svc domain.CheckInService) *CheckInController {
	return &CheckInController{
		Logger:  logger,
		Service: svc,
	}
}

// CheckIn godoc
// @Summary Check in an attendee or credit a meal
// @Description Marks the attendee holding the QR token as checked in, or credits the given meal. Each applies at most once, even when several stations scan the same code at the same moment. The token may be the raw QR text.
// @Tags checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckInRequest true "Scanned token and optional meal tag"
// @Success 200 {object} controllers.CheckInEnvelope "ok is true"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} controllers.CheckInEnvelope "reason NOT_FOUND"
// @Failure 409 {object} controllers.CheckInEnvelope "reason ALREADY_CHECKED_IN, data carries the attendee card"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkin [post]
func (c *CheckInController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	organizer, _ := middleware.OrganizerFromContext(r.Context())
	meal := domain.MealTag(req.MealTag)

	res, err := c.Service.CheckIn(r.Context(), req.Token, meal)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicantNotFound):
			c.Logger.InfoContext(r.Context(), "check-in token not found", "meal_tag", meal, "organizer", organizer)
			helpers.WriteJSON(w, http.StatusNotFound,
				CheckInResponse{OK: false, MealTag: meal, Reason: ReasonNotFound},
				&helpers.APIError{Code: helpers.ErrCodeNotFound, Message: "no attendee holds this QR code"})
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "check-in failed, try again")
		}
		return
	}

	display := res.DisplayFields
	body := CheckInResponse{RecordID: res.RecordID, MealTag: res.MealTag, DisplayFields: &display}
	if res.Status == domain.CheckInAlreadyCheckedIn {
		body.Reason = ReasonAlreadyCheckedIn
		c.Logger.InfoContext(r.Context(), "repeat scan", "applicant_id", res.RecordID, "meal_tag", meal, "organizer", organizer)
		helpers.WriteJSON(w, http.StatusConflict, body,
			&helpers.APIError{Code: helpers.ErrCodeAlreadyCheckedIn, Message: alreadyMessage(meal)})
		return
	}
	body.OK = true
	c.Logger.InfoContext(r.Context(), "checked in", "applicant_id", res.RecordID, "meal_tag", meal, "organizer", organizer)
	helpers.WriteJSONSuccess(w, http.StatusOK, body)
}

func alreadyMessage(meal domain.MealTag) string {
	if meal == "" {
		return "attendee is already checked in"
	}
	return "meal already redeemed: " + string(meal)
}
