package featureflags

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент провайдера фич-флагов.
// Пустой baseURL переводит клиент в статический режим: флаги всегда
// берутся из значений по умолчанию (конфигурация сервиса).
type Client struct {
	baseURL    string
	httpClient *http.Client
	defaults   Flags
	log        Logger
}

// NewClient создает новый экземпляр клиента фич-флагов
func NewClient(baseURL string, timeout time.Duration, defaults Flags, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		defaults: defaults,
		log:      log,
	}
}

// GetFlags получает актуальные фич-флаги от провайдера
func (c *Client) GetFlags(ctx context.Context) (*Flags, error) {
	if c.baseURL == "" {
		flags := c.defaults
		return &flags, nil
	}

	url := fmt.Sprintf("%s/internal/feature-flags", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var flags Flags
	if err := json.NewDecoder(resp.Body).Decode(&flags); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &flags, nil
}

// GetFlagsWithGracefulDegradation получает фич-флаги с graceful degradation.
// При недоступности провайдера возвращает значения по умолчанию из
// конфигурации - расчёт доступности не должен падать из-за флагов.
func (c *Client) GetFlagsWithGracefulDegradation(ctx context.Context) *Flags {
	flags, err := c.GetFlags(ctx)
	if err != nil {
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("Feature flags provider unavailable, using defaults: %v",
			fmt.Errorf("%w: %v", ErrServiceDegraded, err))
		defaults := c.defaults
		return &defaults
	}
	return flags
}
