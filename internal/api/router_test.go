// internal/api/router_test.go
package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"wallet-ledger/internal/api/handler"
	"wallet-ledger/internal/util"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

func TestNewRouterWithoutConfiguredTimeout(t *testing.T) {
	logger := util.DiscardLogger()
	walletHandler := handler.NewWalletHandler(nil, nil, nil, logger)

	for name, tc := range map[string]struct {
		ping   error
		status int
	}{
		"Healthy": {nil, http.StatusOK},
		"DBDown":  {errors.New("refused"), http.StatusServiceUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			router := NewRouter(walletHandler, handler.NewHealthHandler(stubPinger{tc.ping}, logger), logger, 0)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNewRouterUnknownRoute(t *testing.T) {
	logger := util.DiscardLogger()
	router := NewRouter(handler.NewWalletHandler(nil, nil, nil, logger), handler.NewHealthHandler(stubPinger{}, logger), logger, DefaultTimeout)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wallet/1/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
