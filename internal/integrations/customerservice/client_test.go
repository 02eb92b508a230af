package customerservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

func TestClient_GetCustomer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/organizations/org-1/customers/cust-1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"cust-1","organization_id":"org-1","name":"Maria"}`))
		case "/internal/organizations/org-1/customers/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.Nop())
	ctx := context.Background()

	customer, err := client.GetCustomer(ctx, "org-1", "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "Maria", customer.Name)

	_, err = client.GetCustomer(ctx, "org-1", "ghost")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = client.GetCustomerWithGracefulDegradation(ctx, "org-1", "broken")
	assert.ErrorIs(t, err, ErrServiceDegraded)

	_, err = client.GetCustomerWithGracefulDegradation(ctx, "org-1", "ghost")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond, logger.Nop())

	_, err := client.GetCustomerWithGracefulDegradation(context.Background(), "org-1", "cust-1")

	assert.ErrorIs(t, err, ErrServiceDegraded)
}
