package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name          string
		total         int64
		limit         int
		expectedPages int
	}{
		{name: "Should round up partial pages", total: 41, limit: 20, expectedPages: 3},
		{name: "Should return exact pages", total: 40, limit: 20, expectedPages: 2},
		{name: "Should return zero pages for no rows", total: 0, limit: 20, expectedPages: 0},
		{name: "Should return zero pages for a zero limit", total: 10, limit: 0, expectedPages: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := NewPagination(tc.total, 1, tc.limit)
			require.Equal(t, tc.expectedPages, p.Pages)
			require.Equal(t, tc.total, p.Total)
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		operation      string
		expectedStatus int
		expectedBody   Envelope
	}{
		{
			name:           "Should hide details of client errors",
			err:            ErrFormNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   Envelope{Success: false, Message: "Form not found"},
		},
		{
			name:           "Should expose the error of server faults",
			err:            errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   Envelope{Success: false, Message: "Internal server error", Error: "connection reset"},
		},
		{
			name:           "Should use the operation message for server faults",
			err:            errors.New("connection reset"),
			operation:      "Error getting form analytics",
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   Envelope{Success: false, Message: "Error getting form analytics", Error: "connection reset"},
		},
		{
			name:           "Should keep the mapped message for client errors with an operation",
			err:            ErrForbiddenError,
			operation:      "Error getting form analytics",
			expectedStatus: http.StatusForbidden,
			expectedBody:   Envelope{Success: false, Message: "Not authorized to access this restaurant"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			if tc.operation == "" {
				WriteError(context.Background(), rec, tc.err, zap.NewNop())
			} else {
				WriteOperationError(context.Background(), rec, tc.err, zap.NewNop(), tc.operation)
			}

			require.Equal(t, tc.expectedStatus, rec.Code)
			var body Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.expectedBody, body)
		})
	}
}

func TestWritePage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WritePage(rec, []string{"a"}, NewPagination(1, 1, 20))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"data":["a"],"pagination":{"total":1,"page":1,"limit":20,"pages":1}}`, rec.Body.String())
}

func TestParseUUID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	parsed, err := ParseUUID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = ParseUUID("123")
	require.ErrorIs(t, err, ErrInvalidUUID)
}
