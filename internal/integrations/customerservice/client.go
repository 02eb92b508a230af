package customerservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client клиент справочника клиентов организации
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника клиентов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCustomer получает клиента организации по ID
func (c *Client) GetCustomer(ctx context.Context, organizationID, customerID string) (*Customer, error) {
	endpoint := fmt.Sprintf("%s/internal/organizations/%s/customers/%s",
		c.baseURL, url.PathEscape(organizationID), url.PathEscape(customerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrCustomerNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var customer Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &customer, nil
}

// GetCustomerWithGracefulDegradation получает клиента с graceful degradation.
// ErrCustomerNotFound пробрасывается, любая другая ошибка превращается в ErrServiceDegraded.
func (c *Client) GetCustomerWithGracefulDegradation(ctx context.Context, organizationID, customerID string) (*Customer, error) {
	customer, err := c.GetCustomer(ctx, organizationID, customerID)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			c.log.Info("Customer not found: organization_id=%s, customer_id=%s", organizationID, customerID)
			return nil, err
		}

		c.log.Error("CustomerService unavailable, applying graceful degradation for customer_id=%s: %v", customerID, err)
		return nil, fmt.Errorf("%w: customer_id=%s, error=%v", ErrServiceDegraded, customerID, err)
	}

	return customer, nil
}
