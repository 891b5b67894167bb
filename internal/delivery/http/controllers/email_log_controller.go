package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"applicantdesk/internal/delivery/http/helpers"
	"applicantdesk/internal/domain"
)

// maxWebhookBody caps a provider webhook payload.
const maxWebhookBody = 5 << 20

type EmailLogController struct {
	Logger  *slog.Logger
	Service domain.EmailLogService
}

func NewEmailLogController(logger *slog.Logger, svc domain.EmailLogService) *EmailLogController {
	return &EmailLogController{
		Logger:  logger,
		Service: svc,
	}
}

// Webhook godoc
// @Summary Receive email provider events
// @Description Accepts a JSON array of delivery events. Each event is stored with the matching applicant when one exists. Events that fail to store are skipped.
// @Tags email
// @Accept json
// @Produce json
// @Param body body []domain.EmailWebhookEvent true "Provider events"
// @Success 200 {object} helpers.APIResponse "data is domain.WebhookIngestResult"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /webhooks/email [post]
func (c *EmailLogController) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "failed to read body")
		return
	}
	// Keep each raw element so the stored log holds everything the provider sent.
	var raws []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(body), &raws); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "body must be a JSON array of events")
		return
	}
	events := make([]domain.EmailWebhookEvent, 0, len(raws))
	for _, raw := range raws {
		var ev domain.EmailWebhookEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.Logger.WarnContext(r.Context(), "skipping malformed webhook event", "err", err)
			continue
		}
		ev.Raw = raw
		events = append(events, ev)
	}
	res, err := c.Service.Ingest(r.Context(), events)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to process events")
		return
	}
	res.Total = len(raws)
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// List godoc
// @Summary List email events
// @Description Latest 1000 events, newest first. event_type filters by type; "all" or empty returns every type.
// @Tags email
// @Produce json
// @Security BearerAuth
// @Param event_type query string false "Event type, e.g. delivered, bounce, dropped"
// @Success 200 {object} helpers.APIResponse "data is an array of domain.EmailLog"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-logs [get]
func (c *EmailLogController) List(w http.ResponseWriter, r *http.Request) {
	logs, err := c.Service.List(r.Context(), r.URL.Query().Get("event_type"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list email logs")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, logs)
}

// DeliveryStatusRequest is the request body for POST /email-logs/delivery-status.
type DeliveryStatusRequest struct {
	Emails []string `json:"emails"`
}

// Validate implements helpers.Validator.
func (d *DeliveryStatusRequest) Validate() []string {
	cleaned := make([]string, 0, len(d.Emails))
	for _, e := range d.Emails {
		if e = strings.TrimSpace(e); e != "" {
			cleaned = append(cleaned, e)
		}
	}
	d.Emails = cleaned
	if len(d.Emails) == 0 {
		return []string{"emails is required"}
	}
	return nil
}

// DeliveryStatus godoc
// @Summary Check recent deliveries
// @Description For each email, reports whether a delivered event arrived in the last two minutes.
// @Tags email
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeliveryStatusRequest true "Emails to check"
// @Success 200 {object} helpers.APIResponse "data is domain.DeliveryReport"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /email-logs/delivery-status [post]
func (c *EmailLogController) DeliveryStatus(w http.ResponseWriter, r *http.Request) {
	var req DeliveryStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	report, err := c.Service.DeliveryStatus(r.Context(), req.Emails)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to check delivery status")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}
