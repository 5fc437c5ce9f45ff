package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/i4energy/gsm-core/modem"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleHealthz(t *testing.T) {
	router := gin.New()
	s := &Server{router: router}
	router.GET("/healthz", s.handleHealthz)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"busy", &modem.CommandError{Status: modem.StatusBusy}, http.StatusTooManyRequests},
		{"timeout", &modem.CommandError{Status: modem.StatusTimeout}, http.StatusGatewayTimeout},
		{"parameter", &modem.CommandError{Status: modem.StatusParameter}, http.StatusBadRequest},
		{"error", &modem.CommandError{Status: modem.StatusError}, http.StatusBadGateway},
		{"no memory", &modem.CommandError{Status: modem.StatusNoMemory}, http.StatusBadGateway},
		{"unrecognized error", modem.ErrNotInitialized, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusCode(tc.err); got != tc.want {
				t.Errorf("statusCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestSendSMSRequiresFields(t *testing.T) {
	router := gin.New()
	s := &Server{router: router}
	router.POST("/sms", s.handleSendSMS)

	req := httptest.NewRequest(http.MethodPost, "/sms", nil)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing body, got %d", rec.Code)
	}
}
