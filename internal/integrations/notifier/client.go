package notifier

import (
	"bytes"
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

// Client клиент сервиса уведомлений (e-mail рассылка).
// Отправка выполняется в режиме fire-and-forget: ошибки уведомлений
// логируются и никогда не откатывают созданную запись.
// Пустой baseURL отключает отправку.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendReservationCreated отправляет уведомление о созданной записи
func (c *Client) SendReservationCreated(ctx context.Context, n ReservationCreatedNotification) error {
	return c.post(ctx, "/internal/notifications/reservation-created", n)
}

// SendReservationCancelled отправляет уведомление об отменённой записи
func (c *Client) SendReservationCancelled(ctx context.Context, n ReservationCancelledNotification) error {
	return c.post(ctx, "/internal/notifications/reservation-cancelled", n)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	if c.baseURL == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}
