package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"QRFeedback/feedback-backend/internal"
	"QRFeedback/feedback-backend/internal/export"
	"QRFeedback/feedback-backend/internal/form/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FormAnalytics(ctx context.Context, formID uuid.UUID) (FormAnalytics, error) {
	args := m.Called(ctx, formID)
	result, _ := args.Get(0).(FormAnalytics)
	return result, args.Error(1)
}

func (m *mockStore) FormResponses(ctx context.Context, formID uuid.UUID, req response.PageRequest) ([]ResponseView, int64, error) {
	args := m.Called(ctx, formID, req)
	views, _ := args.Get(0).([]ResponseView)
	total, _ := args.Get(1).(int64)
	return views, total, args.Error(2)
}

func (m *mockStore) QuestionAnalytics(ctx context.Context, questionID uuid.UUID) (QuestionAnalytics, error) {
	args := m.Called(ctx, questionID)
	result, _ := args.Get(0).(QuestionAnalytics)
	return result, args.Error(1)
}

func (m *mockStore) QuestionResponses(ctx context.Context, questionID uuid.UUID, sortOrder string, page, limit int) ([]QuestionAnswerView, int64, error) {
	args := m.Called(ctx, questionID, sortOrder, page, limit)
	views, _ := args.Get(0).([]QuestionAnswerView)
	total, _ := args.Get(1).(int64)
	return views, total, args.Error(2)
}

func (m *mockStore) ResponseDetail(ctx context.Context, responseID uuid.UUID) (ResponseDetail, error) {
	args := m.Called(ctx, responseID)
	result, _ := args.Get(0).(ResponseDetail)
	return result, args.Error(1)
}

func (m *mockStore) ExportForm(ctx context.Context, formID uuid.UUID, format export.Format, order export.SortOrder) (export.Table, error) {
	args := m.Called(ctx, formID, format, order)
	table, _ := args.Get(0).(export.Table)
	return table, args.Error(1)
}

func (m *mockStore) ExportQuestion(ctx context.Context, questionID uuid.UUID, format export.Format) (export.Table, error) {
	args := m.Called(ctx, questionID, format)
	table, _ := args.Get(0).(export.Table)
	return table, args.Error(1)
}

func newTestHandler(store Store) *Handler {
	return NewHandler(zap.NewNop(), internal.NewValidator(), store)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) internal.Envelope {
	t.Helper()

	var body internal.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandler_GetFormAnalytics(t *testing.T) {
	formID := uuid.New()

	tests := []struct {
		name           string
		pathID         string
		storeErr       error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "Should return the analytics envelope",
			pathID:         formID.String(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Should reject a malformed id",
			pathID:         "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid id",
		},
		{
			name:           "Should map a missing form to 404",
			pathID:         formID.String(),
			storeErr:       internal.ErrFormNotFound,
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Form not found",
		},
		{
			name:           "Should map a foreign restaurant to 403",
			pathID:         formID.String(),
			storeErr:       internal.ErrForbiddenError,
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "Not authorized to access this restaurant",
		},
		{
			name:           "Should name the operation on storage faults",
			pathID:         formID.String(),
			storeErr:       errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Error getting form analytics",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := &mockStore{}
			store.On("FormAnalytics", mock.Anything, formID).Return(FormAnalytics{TotalResponses: 3}, tc.storeErr).Maybe()
			h := newTestHandler(store)

			r := httptest.NewRequest(http.MethodGet, "/api/analytics/forms/"+tc.pathID+"/analytics", nil)
			r.SetPathValue("formId", tc.pathID)
			rec := httptest.NewRecorder()
			h.GetFormAnalytics(rec, r)

			require.Equal(t, tc.expectedStatus, rec.Code)
			body := decodeEnvelope(t, rec)
			if tc.expectedStatus != http.StatusOK {
				require.False(t, body.Success)
				require.Equal(t, tc.expectedMsg, body.Message)
				return
			}

			require.True(t, body.Success)
			data, ok := body.Data.(map[string]any)
			require.True(t, ok)
			require.EqualValues(t, 3, data["totalResponses"])
		})
	}
}

func TestHandler_GetFormResponses(t *testing.T) {
	formID := uuid.New()

	tests := []struct {
		name     string
		query    string
		expected response.PageRequest
	}{
		{
			name:     "Should apply defaults",
			query:    "",
			expected: response.PageRequest{SortBy: "submittedAt", SortOrder: "desc", Page: 1, Limit: 20},
		},
		{
			name:     "Should honour valid parameters",
			query:    "?page=3&limit=5&sortBy=overallRating&sortOrder=asc",
			expected: response.PageRequest{SortBy: "overallRating", SortOrder: "asc", Page: 3, Limit: 5},
		},
		{
			name:     "Should fall back on invalid parameters",
			query:    "?page=-2&limit=abc&sortBy=name&sortOrder=sideways",
			expected: response.PageRequest{SortBy: "submittedAt", SortOrder: "desc", Page: 1, Limit: 20},
		},
		{
			name:     "Should clamp the limit",
			query:    "?limit=500",
			expected: response.PageRequest{SortBy: "submittedAt", SortOrder: "desc", Page: 1, Limit: 100},
		},
		{
			name:     "Should clamp a page whose offset overflows",
			query:    "?page=30000000&limit=100",
			expected: response.PageRequest{SortBy: "submittedAt", SortOrder: "desc", Page: 21474837, Limit: 100},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := &mockStore{}
			store.On("FormResponses", mock.Anything, formID, tc.expected).Return([]ResponseView{}, int64(41), nil)
			h := newTestHandler(store)

			r := httptest.NewRequest(http.MethodGet, "/api/analytics/forms/"+formID.String()+"/responses"+tc.query, nil)
			r.SetPathValue("formId", formID.String())
			rec := httptest.NewRecorder()
			h.GetFormResponses(rec, r)

			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeEnvelope(t, rec)
			require.True(t, body.Success)
			require.NotNil(t, body.Pagination)
			require.Equal(t, int64(41), body.Pagination.Total)
			require.Equal(t, tc.expected.Page, body.Pagination.Page)
			require.Equal(t, tc.expected.Limit, body.Pagination.Limit)
			store.AssertExpectations(t)
		})
	}
}

func TestHandler_GetQuestionResponses(t *testing.T) {
	t.Parallel()
	questionID := uuid.New()
	store := &mockStore{}
	store.On("QuestionResponses", mock.Anything, questionID, "asc", 2, 10).Return([]QuestionAnswerView{{ID: uuid.New()}}, int64(11), nil)
	h := newTestHandler(store)

	r := httptest.NewRequest(http.MethodGet, "/api/analytics/questions/"+questionID.String()+"/responses?page=2&limit=10&sortOrder=asc", nil)
	r.SetPathValue("questionId", questionID.String())
	rec := httptest.NewRecorder()
	h.GetQuestionResponses(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	require.Equal(t, 2, body.Pagination.Pages)
}

func TestHandler_GetQuestionAnalytics(t *testing.T) {
	t.Parallel()
	questionID := uuid.New()
	store := &mockStore{}
	store.On("QuestionAnalytics", mock.Anything, questionID).Return(QuestionAnalytics{}, internal.ErrQuestionNotFound)
	h := newTestHandler(store)

	r := httptest.NewRequest(http.MethodGet, "/api/analytics/questions/"+questionID.String()+"/analytics", nil)
	r.SetPathValue("questionId", questionID.String())
	rec := httptest.NewRecorder()
	h.GetQuestionAnalytics(rec, r)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Question not found", decodeEnvelope(t, rec).Message)
}

func TestHandler_GetResponse(t *testing.T) {
	t.Parallel()
	responseID := uuid.New()
	store := &mockStore{}
	store.On("ResponseDetail", mock.Anything, responseID).Return(ResponseDetail{ID: responseID, Answers: []DetailAnswer{}}, nil)
	h := newTestHandler(store)

	r := httptest.NewRequest(http.MethodGet, "/api/analytics/responses/"+responseID.String(), nil)
	r.SetPathValue("responseId", responseID.String())
	rec := httptest.NewRecorder()
	h.GetResponse(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeEnvelope(t, rec).Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, responseID.String(), data["id"])
	require.Nil(t, data["form"])
}

func TestHandler_ExportForm(t *testing.T) {
	formID := uuid.New()
	table := export.Table{
		Header: []string{"Response ID", "Timestamp", "Overall Rating"},
		Rows:   [][]string{{"r1", "2024-05-02T12:00:00.000Z", "5"}},
	}

	tests := []struct {
		name                string
		query               string
		format              export.Format
		order               export.SortOrder
		expectedType        string
		expectedDisposition string
	}{
		{
			name:                "Should default to csv newest first",
			format:              export.FormatCSV,
			order:               export.Descending,
			expectedType:        "text/csv",
			expectedDisposition: "attachment; filename=feedback_" + formID.String() + ".csv",
		},
		{
			name:                "Should serve json with the requested order",
			query:               "?format=json&sortOrder=asc",
			format:              export.FormatJSON,
			order:               export.Ascending,
			expectedType:        "application/json",
			expectedDisposition: "attachment; filename=feedback_" + formID.String() + ".json",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := &mockStore{}
			store.On("ExportForm", mock.Anything, formID, tc.format, tc.order).Return(table, nil)
			h := newTestHandler(store)

			r := httptest.NewRequest(http.MethodGet, "/api/analytics/forms/"+formID.String()+"/export"+tc.query, nil)
			r.SetPathValue("formId", formID.String())
			rec := httptest.NewRecorder()
			h.ExportForm(rec, r)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tc.expectedType, rec.Header().Get("Content-Type"))
			require.Equal(t, tc.expectedDisposition, rec.Header().Get("Content-Disposition"))
			require.Contains(t, rec.Body.String(), "r1")
		})
	}
}

func TestHandler_ExportQuestion(t *testing.T) {
	t.Parallel()
	questionID := uuid.New()
	store := &mockStore{}
	store.On("ExportQuestion", mock.Anything, questionID, export.FormatCSV).Return(export.Table{}, internal.ErrExportTooLarge)
	h := newTestHandler(store)

	r := httptest.NewRequest(http.MethodGet, "/api/analytics/questions/"+questionID.String()+"/export?format=csv", nil)
	r.SetPathValue("questionId", questionID.String())
	rec := httptest.NewRecorder()
	h.ExportQuestion(rec, r)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, "Export too large", decodeEnvelope(t, rec).Message)
}
