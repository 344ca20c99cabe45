package catalogservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, logger.NewNop())
}

func TestGetService_OK(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/tenants/3/services/7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Service{ID: 7, TenantID: 3, Name: "Haircut", DurationMinutes: 45, IsActive: true})
	})

	svc, err := client.GetService(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, 45, svc.DurationMinutes)
	assert.Equal(t, "Haircut", svc.Name)
}

func TestGetService_NotFound(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetService(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGetService_OtherTenantOrInactive(t *testing.T) {
	for name, svc := range map[string]Service{
		"other tenant": {ID: 7, TenantID: 4, DurationMinutes: 30, IsActive: true},
		"inactive":     {ID: 7, TenantID: 3, DurationMinutes: 30, IsActive: false},
	} {
		t.Run(name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(svc)
			})

			_, err := client.GetService(context.Background(), 3, 7)
			assert.ErrorIs(t, err, ErrServiceNotFound)
		})
	}
}

func TestGetService_BadResponses(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.GetService(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	client = newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})
	_, err = client.GetService(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	client = newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Service{ID: 7, TenantID: 3, DurationMinutes: 0, IsActive: true})
	})
	_, err = client.GetService(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGetService_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, logger.NewNop())

	_, err := client.GetService(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrInternal)
}
