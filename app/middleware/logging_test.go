package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	testCases := []struct {
		name          string
		requestID     string
		status        int
		expectedLevel logrus.Level
	}{
		{name: "Success generates id", status: http.StatusOK, expectedLevel: logrus.InfoLevel},
		{name: "Client error keeps id", requestID: "req-42", status: http.StatusNotFound, expectedLevel: logrus.WarnLevel},
		{name: "Server error", status: http.StatusInternalServerError, expectedLevel: logrus.ErrorLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			log, hook := test.NewNullLogger()
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			handler := Logging(log)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/pokemon/", nil)
			if tc.requestID != "" {
				req.Header.Set(RequestIDHeader, tc.requestID)
			}
			w := httptest.NewRecorder()

			// Act
			handler.ServeHTTP(w, req)

			// Assert
			require.Len(t, hook.Entries, 1)
			entry := hook.LastEntry()
			assert.Equal(t, tc.expectedLevel, entry.Level)
			assert.Equal(t, tc.status, entry.Data["status"])

			id := w.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, id)
			assert.Equal(t, id, entry.Data["request_id"])
			if tc.requestID != "" {
				assert.Equal(t, tc.requestID, id)
			}
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), mw("outer"), mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
