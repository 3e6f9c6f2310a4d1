package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	pushPath      = "/v2/bot/message/push"
	maxTextLength = 5000
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент LINE Messaging API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    []time.Duration
	log        Logger
}

var defaultRetryDelays = []time.Duration{500 * time.Millisecond, 2 * time.Second}

// NewClient создает новый экземпляр клиента LINE.
// ratePerSecond ограничивает исходящие push-запросы.
func NewClient(baseURL, token string, timeout time.Duration, ratePerSecond float64, burst int, log Logger) *Client {
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		retries: defaultRetryDelays,
		log:     log,
	}
}

// WithRetries задает паузы между повторами; без аргументов повторов нет
func (c *Client) WithRetries(delays ...time.Duration) *Client {
	c.retries = delays
	return c
}

// PushText отправляет текстовое сообщение пользователю.
// Сетевые ошибки, 429 и 5xx повторяются с тем же X-Line-Retry-Key,
// поэтому LINE не доставит сообщение дважды; 409 означает, что первая попытка уже принята.
func (c *Client) PushText(ctx context.Context, to, text string) error {
	body, err := json.Marshal(PushRequest{
		To:       to,
		Messages: []Message{{Type: "text", Text: truncate(text, maxTextLength)}},
	})
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	retryKey := uuid.New().String()
	for attempt := 0; ; attempt++ {
		retryable, err := c.push(ctx, body, retryKey)
		if err == nil || !retryable || attempt >= len(c.retries) {
			return err
		}

		c.log.Warn("LINE push attempt %d failed, retrying: retry_key=%s, error=%v", attempt+1, retryKey, err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrInternal, ctx.Err())
		case <-time.After(c.retries[attempt]):
		}
	}
}

// push выполняет одну попытку; первое значение сообщает, можно ли повторить запрос
func (c *Client) push(ctx context.Context, body []byte, retryKey string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pushPath, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Line-Retry-Key", retryKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		return false, nil
	case resp.StatusCode == http.StatusConflict:
		c.log.Info("LINE push already accepted: retry_key=%s", retryKey)
		return false, nil
	case resp.StatusCode == http.StatusBadRequest:
		return false, fmt.Errorf("%w: %s", ErrInvalidRequest, readError(resp.Body))
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return false, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return true, ErrRateLimited
	case resp.StatusCode >= http.StatusInternalServerError:
		return true, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readError(resp.Body))
	default:
		return false, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readError(resp.Body))
	}
}

// truncate обрезает текст до limit символов, не разрывая UTF-8 последовательности
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

func readError(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))

	var e ErrorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(raw)
}
