package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/fiscus-ingest/internal/api/handlers"
	"github.com/donaldgifford/fiscus-ingest/internal/store/mocks"
)

func TestHealthz(t *testing.T) {
	t.Parallel()

	mockStore := mocks.NewMockStore(t)
	h := handlers.NewHealthHandler(mockStore)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Healthz(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	down := errors.New("connection refused")

	tests := []struct {
		name       string
		pingErr    error
		redisErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "returns 200 when every dependency answers",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "returns 503 when store ping fails",
			pingErr:    down,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","failed":["database"]}`,
		},
		{
			name:       "returns 503 when redis is down",
			redisErr:   down,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","failed":["redis"]}`,
		},
		{
			name:       "lists every failed dependency sorted",
			pingErr:    down,
			redisErr:   down,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","failed":["database","redis"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockStore := mocks.NewMockStore(t)
			mockStore.EXPECT().Ping(mock.Anything).Return(tt.pingErr)

			redisErr := tt.redisErr
			h := handlers.NewHealthHandler(mockStore, handlers.WithReadinessCheck(
				"redis", handlers.PingFunc(func(context.Context) error { return redisErr }),
			))

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.Readyz(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
