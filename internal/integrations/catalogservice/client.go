package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Client клиент для работы с каталогом услуг
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает услугу тенанта
// Услуга другого тенанта или отключённая услуга возвращается как ErrServiceNotFound
func (c *Client) GetService(ctx context.Context, tenantID, serviceID int64) (*domain.ServiceDefinition, error) {
	url := fmt.Sprintf("%s/internal/tenants/%d/services/%d", c.baseURL, tenantID, serviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("CatalogService: request failed tenant=%d, service=%d: %v", tenantID, serviceID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrServiceNotFound
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid tenant or service ID", ErrInvalidResponse)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var service Service
	if err := json.NewDecoder(resp.Body).Decode(&service); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if service.TenantID != tenantID || !service.IsActive {
		c.log.Warn("CatalogService: service id=%d is inactive or belongs to another tenant", serviceID)
		return nil, ErrServiceNotFound
	}

	if service.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service id=%d has non-positive duration %d",
			ErrInvalidResponse, serviceID, service.DurationMinutes)
	}

	return &domain.ServiceDefinition{
		ID:              service.ID,
		TenantID:        service.TenantID,
		Name:            service.Name,
		DurationMinutes: service.DurationMinutes,
	}, nil
}
