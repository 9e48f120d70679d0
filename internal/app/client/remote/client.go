// Package remote HTTP-клиент удаленного хранилища магазина.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"possync/internal/domain/datastore"
)

var ErrUnauthorized = errors.New("не авторизован")

// Options параметры подключения
type Options struct {
	ServerAddress string
	EnableTLS     bool
	Token         string
	Timeout       time.Duration
}

// Client реализует datastore.Client поверх REST API сервера
type Client struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string

	mu    sync.RWMutex
	token string
}

// TokenResponse выданный сервером токен доступа
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type upsertRequest struct {
	Rows       json.RawMessage `json:"rows"`
	OnConflict string          `json:"on_conflict"`
}

type selectResponse struct {
	Rows json.RawMessage `json:"rows"`
}

// New создает клиента
func New(opts Options, log *slog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	scheme := "http://"
	if opts.EnableTLS {
		scheme = "https://"
	}

	return &Client{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		log:       log.With("component", "remote"),
		baseURL:   scheme + opts.ServerAddress,
		userAgent: "possync-client/1.0",
		token:     opts.Token,
	}
}

// SetToken устанавливает токен аутентификации
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HealthCheck проверяет доступность сервера
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	return c.parseResponse(resp, nil)
}

// RegisterShop регистрирует магазин с секретом доступа
func (c *Client) RegisterShop(ctx context.Context, shopID, name, secret string) error {
	body := map[string]string{"shop_id": shopID, "name": name, "secret": secret}
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/shops/register", body)
	if err != nil {
		return err
	}
	return c.parseResponse(resp, nil)
}

// Login получает токен магазина и запоминает его
func (c *Client) Login(ctx context.Context, shopID, secret string) (TokenResponse, error) {
	body := map[string]string{"shop_id": shopID, "secret": secret}
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/token", body)
	if err != nil {
		return TokenResponse{}, err
	}

	var out TokenResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return TokenResponse{}, err
	}
	if out.Token == "" {
		return TokenResponse{}, errors.New("сервер не вернул токен")
	}

	c.SetToken(out.Token)
	return out, nil
}

// Upsert отправляет строки в таблицу. Повтор запроса безопасен.
func (c *Client) Upsert(ctx context.Context, table string, rows any, conflictKey string) error {
	if err := datastore.ValidateTable(table); err != nil {
		return err
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("ошибка маршалинга строк: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/rest/"+table, upsertRequest{
		Rows:       data,
		OnConflict: conflictKey,
	})
	if err != nil {
		return err
	}
	return c.parseResponse(resp, nil)
}

// Select читает строки магазина, у которых q.Column больше q.After
func (c *Client) Select(ctx context.Context, q datastore.Query, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("shop_id", q.ShopID)
	params.Set("column", q.Column)
	if q.After != "" {
		params.Set("after", q.After)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/rest/"+q.Table+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	var out selectResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return err
	}
	if len(out.Rows) == 0 || string(out.Rows) == "null" {
		out.Rows = json.RawMessage("[]")
	}
	if err := json.Unmarshal(out.Rows, dest); err != nil {
		return fmt.Errorf("ошибка парсинга строк %s: %w", q.Table, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("Отправка запроса", "method", method, "url", req.URL.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	return resp, nil
}

func (c *Client) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	c.log.Debug("Получен ответ", "status", resp.StatusCode, "size", len(body))

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		msg := fmt.Sprintf("статус %d", resp.StatusCode)
		if err := json.Unmarshal(body, &errResp); err == nil {
			switch {
			case errResp.Error != "":
				msg = errResp.Error
			case errResp.Detail != "":
				msg = errResp.Detail
			}
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return fmt.Errorf("ошибка сервера: %s", msg)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}
	return nil
}
