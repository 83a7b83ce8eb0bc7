package openapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	e := echo.New()
	RegisterRoutes(e, "/openapi.json")

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
		wantLoc    string
	}{
		{name: "ui", path: "/swagger/index.html", wantStatus: http.StatusOK, wantBody: `url: "/openapi.json"`},
		{name: "bare redirect", path: "/swagger", wantStatus: http.StatusMovedPermanently, wantLoc: "/swagger/index.html"},
		{name: "slash redirect", path: "/swagger/", wantStatus: http.StatusMovedPermanently, wantLoc: "/swagger/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}
