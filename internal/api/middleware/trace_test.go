package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub/internal/api/shared"
	"github.com/phrazzld/taskhub/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.NewTestLogger()

	var seenTrace string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTrace = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	require.NotEmpty(t, seenTrace)
	assert.Equal(t, seenTrace, w.Header().Get(TraceIDHeader))
	assert.Equal(t, http.StatusTeapot, w.Code)

	var inside, completed map[string]any
	for _, e := range buf.Entries() {
		switch e["msg"] {
		case "inside handler":
			inside = e
		case "request completed":
			completed = e
		}
	}
	require.NotNil(t, inside)
	require.NotNil(t, completed)
	assert.Equal(t, seenTrace, inside["trace_id"])
	assert.Equal(t, float64(http.StatusTeapot), completed["status"])
}

func TestTraceMiddleware_ReusesChiRequestID(t *testing.T) {
	log, _ := logger.NewTestLogger()

	var seenTrace, reqID string
	handler := chimiddleware.RequestID(NewTraceMiddleware(log)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			seenTrace = shared.GetTraceID(r.Context())
			reqID = chimiddleware.GetReqID(r.Context())
		})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, reqID)
	assert.Equal(t, reqID, seenTrace)
}
