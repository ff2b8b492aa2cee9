// Package onec клиент прокси 1С: выгрузка настроек подразделения и отправка заказов.
package onec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/order"
)

var ErrRefreshFailed = errors.New("onec: refresh rejected")

type Options struct {
	BaseURL string
	Timeout time.Duration
	// RPS ограничение частоты запросов к прокси; 0, без ограничения.
	RPS float64
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if opts.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: lim,
	}
}

type settingsRequest struct {
	Subdivision string `json:"subdivision"`
}

type settingsResponse struct {
	Success   bool               `json:"success"`
	Mechanics []string           `json:"mechanics"`
	Materials []catalog.Material `json:"materials"`
	Services  []catalog.Service  `json:"services"`
	Error     string             `json:"error"`
}

// FetchSettings запрашивает справочники подразделения. Возвращает сырой снимок:
// нормализация и проверка, забота вызывающего.
func (c *Client) FetchSettings(ctx context.Context, subdivision string) (catalog.Snapshot, error) {
	var resp settingsResponse
	if err := c.post(ctx, "/api/get-settings", settingsRequest{Subdivision: subdivision}, &resp); err != nil {
		return catalog.Snapshot{}, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "unknown error"
		}
		return catalog.Snapshot{}, fmt.Errorf("%w: %s", ErrRefreshFailed, msg)
	}
	return catalog.Snapshot{
		Subdivision: subdivision,
		Mechanics:   resp.Mechanics,
		Materials:   resp.Materials,
		Services:    resp.Services,
	}, nil
}

type orderLine struct {
	ID    catalog.ID `json:"id"`
	Name  string     `json:"name"`
	Price float64    `json:"price"`
	Qty   int        `json:"qty"`
}

type orderRequest struct {
	Subdivision string       `json:"subdivision"`
	Mechanics   []string     `json:"mechanics"`
	Client      order.Client `json:"client"`
	Radius      int          `json:"radius"`
	Wheels      int          `json:"wheels"`
	Materials   []orderLine  `json:"materials"`
	Services    []orderLine  `json:"services"`
	Total       float64      `json:"total"`
}

type orderResponse struct {
	Success bool   `json:"success"`
	Number  string `json:"number"`
	Error   string `json:"error"`
}

// SubmitOrder отправляет в 1С только отмеченные позиции с ненулевым количеством.
// Возвращает номер документа в 1С.
func (c *Client) SubmitOrder(ctx context.Context, subdivision string, d order.Draft) (string, error) {
	req := orderRequest{
		Subdivision: subdivision,
		Mechanics:   d.Mechanics,
		Client:      d.Client,
		Radius:      d.Wheels.Radius,
		Wheels:      d.Wheels.Count,
		Total:       order.Total(d),
	}
	for _, m := range d.Materials {
		if m.Selected && m.Qty > 0 {
			req.Materials = append(req.Materials, orderLine{ID: m.ID, Name: m.Name, Price: m.Price, Qty: m.Qty})
		}
	}
	for _, s := range d.Services {
		if s.Selected && s.Qty > 0 {
			req.Services = append(req.Services, orderLine{ID: s.ID, Name: s.Name, Price: s.Price, Qty: s.Qty})
		}
	}

	var resp orderResponse
	if err := c.post(ctx, "/api/create-order", req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("onec: order rejected: %s", resp.Error)
	}
	return resp.Number, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("onec %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("onec %s: read body: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("onec %s: status %s", path, resp.Status)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("onec %s: decode: %w", path, err)
	}
	return nil
}
