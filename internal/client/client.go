// Package client 游记 REST API 的 Go 客户端，编辑器命令用它读写条目
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"travel-journal/internal/model"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError 服务端返回的错误响应
type APIError struct {
	HTTPStatus int
	Code       int32
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (code %d): %s", e.HTTPStatus, e.Code, e.Message)
}

func IsNotFound(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.HTTPStatus == http.StatusNotFound
}

type envelope struct {
	Status string              `json:"status"`
	Code   int32               `json:"code"`
	Data   jsoniter.RawMessage `json:"data"`
	Error  string              `json:"error"`
}

type Client struct {
	http *resty.Client
	base string
}

// New base 是包含前缀的 API 地址，例如 http://localhost:8080/api
func New(http *resty.Client, base string) *Client {
	return &Client{http: http, base: strings.TrimRight(base, "/")}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx).SetHeader("Accept", "application/json")
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		req.SetHeader("Content-Type", "application/json").SetBody(raw)
	}
	resp, err := req.Execute(method, c.base+path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.IsError() {
			return &APIError{HTTPStatus: resp.StatusCode(), Message: resp.Status()}
		}
		return errors.Wrap(err, "decode response")
	}
	if resp.IsError() || env.Status != "success" {
		return &APIError{HTTPStatus: resp.StatusCode(), Code: env.Code, Message: env.Error}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(env.Data, out), "decode data")
}

func (c *Client) ListTrips(ctx context.Context) ([]model.Trip, error) {
	var trips []model.Trip
	err := c.do(ctx, http.MethodGet, "/trips", nil, &trips)
	return trips, err
}

func (c *Client) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	var trip model.Trip
	if err := c.do(ctx, http.MethodGet, "/trips/"+id, nil, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *Client) CreateTrip(ctx context.Context, trip *model.Trip) error {
	return c.do(ctx, http.MethodPost, "/trips", trip, trip)
}

func (c *Client) UpdateTrip(ctx context.Context, id string, patch model.TripPatch) (*model.Trip, error) {
	var trip model.Trip
	if err := c.do(ctx, http.MethodPut, "/trips/"+id, patch, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/trips/"+id, nil, nil)
}

func (c *Client) CreateEntry(ctx context.Context, entry *model.Entry) error {
	return c.do(ctx, http.MethodPost, "/entries", entry, entry)
}

func (c *Client) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	var entry model.Entry
	if err := c.do(ctx, http.MethodGet, "/entries/"+id, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

type entryUpdate struct {
	ID string `json:"id"`
	model.EntryPatch
}

func (c *Client) UpdateEntry(ctx context.Context, id string, patch model.EntryPatch) (*model.Entry, error) {
	var entry model.Entry
	if err := c.do(ctx, http.MethodPut, "/entries", entryUpdate{ID: id, EntryPatch: patch}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveEntryContent 实现 autosave.Saver，返回服务端清洗后的内容
func (c *Client) SaveEntryContent(ctx context.Context, entryID, content string) (string, error) {
	entry, err := c.UpdateEntry(ctx, entryID, model.EntryPatch{Content: &content})
	if err != nil {
		return "", err
	}
	return entry.Content, nil
}
