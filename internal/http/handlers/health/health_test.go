package health

import (
	"context"
	"errors"
	"linetask/internal/core/domain/logging"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		id           string
		checks       map[string]Check
		expectedCode int
		expectedBody string
	}{
		{id: "no checks", checks: nil, expectedCode: http.StatusOK, expectedBody: `{"status":"ok"}`},
		{id: "healthy", checks: map[string]Check{"db": ok}, expectedCode: http.StatusOK, expectedBody: `{"status":"ok"}`},
		{
			id:           "db down",
			checks:       map[string]Check{"db": down, "redis": ok},
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"status":"unavailable","failed":{"db":"connection refused"}}`,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(logging.NewFakeLogger(), testcase.checks).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, testcase.expectedCode, rec.Code)
			require.JSONEq(t, testcase.expectedBody, rec.Body.String())
		})
	}
}
