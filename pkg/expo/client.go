package expo

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
)

const (
	DefaultURL  = "https://exp.host/--/api/v2/push/send"
	TokenPrefix = "ExponentPushToken["
	Timeout     = 10 * time.Second
)

var (
	ErrInvalidToken        = errors.New("invalid push token format")
	ErrDeviceNotRegistered = errors.New("device not registered")
)

func ValidToken(token string) bool {
	return strings.HasPrefix(token, TokenPrefix)
}

// IsTestToken reports tokens used by app builds in development. They are accepted but never sent.
func IsTestToken(token string) bool {
	return strings.Contains(token, "test-") || strings.HasSuffix(token, "[test]")
}

type Message struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Sound string                 `json:"sound"`
	Data  map[string]interface{} `json:"data"`
}

type ticket struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Details struct {
			Error string `json:"error"`
		} `json:"details"`
	} `json:"data"`
}

type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url, http: &http.Client{Timeout: Timeout}}
}

// Send pushes one notification. Test tokens short-circuit to success.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]interface{}) error {
	if !ValidToken(token) {
		return ErrInvalidToken
	}
	if IsTestToken(token) {
		return nil
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	payload, err := json.Marshal(Message{To: token, Title: title, Body: body, Sound: "default", Data: data})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("expo push failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("expo push failed: %d - %s", resp.StatusCode, raw)
	}

	var t ticket
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return fmt.Errorf("decode expo ticket: %w", err)
	}
	switch {
	case t.Data.Status == "ok":
		return nil
	case t.Data.Details.Error == "DeviceNotRegistered":
		return ErrDeviceNotRegistered
	default:
		return fmt.Errorf("expo push error: %s %s", t.Data.Details.Error, t.Data.Message)
	}
}
