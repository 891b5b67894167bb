package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicantdesk/internal/delivery/http/helpers"
	"applicantdesk/internal/delivery/http/middleware"
	"applicantdesk/internal/domain"
)

const testApplicantID = "3f2b8c1e-6a4d-4f7e-9b1a-2c3d4e5f6a7b"

type fakeApplicantService struct {
	items        []*domain.Applicant
	total        int
	applicant    *domain.Applicant
	batch        *domain.BatchAdmitResult
	err          error
	lastParams   domain.ApplicantListParams
	lastID       string
	lastDecision domain.Decision
	lastNote     *string
	lastOrg      string
	lastIDs      []string
}

func (f *fakeApplicantService) List(ctx context.Context, params domain.ApplicantListParams) ([]*domain.Applicant, int, error) {
	f.lastParams = params
	return f.items, f.total, f.err
}

func (f *fakeApplicantService) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	f.lastID = id
	return f.applicant, f.err
}

func (f *fakeApplicantService) Decide(ctx context.Context, id string, decision domain.Decision, note *string, organizer string) (*domain.Applicant, error) {
	f.lastID, f.lastDecision, f.lastNote, f.lastOrg = id, decision, note, organizer
	return f.applicant, f.err
}

func (f *fakeApplicantService) BatchAdmit(ctx context.Context, ids []string, organizer string) (*domain.BatchAdmitResult, error) {
	f.lastIDs, f.lastOrg = ids, organizer
	return f.batch, f.err
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Error
}

func TestApplicantController_List(t *testing.T) {
	svc := &fakeApplicantService{
		items: []*domain.Applicant{{ID: testApplicantID, Email: "ada@example.com", Status: domain.StatusPending}},
		total: 41,
	}
	ctrl := NewApplicantController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/applicants?q=ada&page=2&page_size=500", nil)
	w := httptest.NewRecorder()
	ctrl.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada", svc.lastParams.Query)
	assert.Equal(t, 2, svc.lastParams.Pagination.Page)
	assert.Equal(t, helpers.MaxPageSize, svc.lastParams.Pagination.PageSize)

	var resp ListApplicantsResponse
	assert.Nil(t, decodeEnvelope(t, w, &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 41, resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.TotalPages)

	svc.err = errors.New("db down")
	w = httptest.NewRecorder()
	ctrl.List(w, httptest.NewRequest(http.MethodGet, "/applicants", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestApplicantController_Get(t *testing.T) {
	tests := []struct {
		name       string
		pathID     string
		err        error
		wantStatus int
	}{
		{"found", testApplicantID, nil, http.StatusOK},
		{"malformed id", "not-a-uuid", nil, http.StatusBadRequest},
		{"missing", testApplicantID, domain.ErrApplicantNotFound, http.StatusNotFound},
		{"store error", testApplicantID, errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeApplicantService{applicant: &domain.Applicant{ID: testApplicantID}, err: tt.err}
			ctrl := NewApplicantController(discardLogger(), svc)

			req := httptest.NewRequest(http.MethodGet, "/applicants/"+tt.pathID, nil)
			req.SetPathValue("applicantID", tt.pathID)
			w := httptest.NewRecorder()
			ctrl.Get(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestApplicantController_Decide(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		organizer  string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"accept with note", `{"decision":"Accepted","note":"great demo"}`, "grace", nil, http.StatusOK, ""},
		{"bad decision", `{"decision":"maybe"}`, "grace", nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"no organizer", `{"decision":"denied"}`, "", nil, http.StatusUnauthorized, helpers.ErrCodeUnauthorized},
		{"unknown applicant", `{"decision":"denied"}`, "grace", domain.ErrApplicantNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"token collision", `{"decision":"accepted"}`, "grace", fmt.Errorf("record decision: %w", domain.ErrConflict), http.StatusConflict, helpers.ErrCodeConflict},
		{"mail failure", `{"decision":"accepted"}`, "grace", errors.New("ses throttled"), http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeApplicantService{applicant: &domain.Applicant{ID: testApplicantID, Status: domain.StatusAccepted}, err: tt.err}
			ctrl := NewApplicantController(discardLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/applicants/"+testApplicantID+"/decision", strings.NewReader(tt.body))
			req.SetPathValue("applicantID", testApplicantID)
			if tt.organizer != "" {
				req = req.WithContext(middleware.WithOrganizer(req.Context(), tt.organizer))
			}
			w := httptest.NewRecorder()
			ctrl.Decide(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			apiErr := decodeEnvelope(t, w, nil)
			if tt.wantCode == "" {
				assert.Nil(t, apiErr)
				assert.Equal(t, domain.DecisionAccepted, svc.lastDecision)
				require.NotNil(t, svc.lastNote)
				assert.Equal(t, "great demo", *svc.lastNote)
				assert.Equal(t, "grace", svc.lastOrg)
				return
			}
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestApplicantController_BatchAdmit(t *testing.T) {
	svc := &fakeApplicantService{batch: &domain.BatchAdmitResult{Total: 2, Eligible: 2, Admitted: 2, Errors: []domain.BatchAdmitError{}}}
	ctrl := NewApplicantController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/applicants/batch-admit", strings.NewReader(`{"applicant_ids":["a1","a2"]}`))
	req = req.WithContext(middleware.WithOrganizer(req.Context(), "grace"))
	w := httptest.NewRecorder()
	ctrl.BatchAdmit(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"a1", "a2"}, svc.lastIDs)
	assert.Equal(t, "grace", svc.lastOrg, "falls back to the signed-in organizer")
	var res domain.BatchAdmitResult
	assert.Nil(t, decodeEnvelope(t, w, &res))
	assert.Equal(t, 2, res.Admitted)

	req = httptest.NewRequest(http.MethodPost, "/applicants/batch-admit", strings.NewReader(`{"applicant_ids":["a1"],"organizer_name":"Batch Admit"}`))
	w = httptest.NewRecorder()
	ctrl.BatchAdmit(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Batch Admit", svc.lastOrg)

	req = httptest.NewRequest(http.MethodPost, "/applicants/batch-admit", strings.NewReader(`{"applicant_ids":[]}`))
	w = httptest.NewRecorder()
	ctrl.BatchAdmit(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
