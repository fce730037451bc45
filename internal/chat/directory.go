package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HKK13/hello-bott/internal/domain"
)

// DefaultAPIURL is the platform's Web API base.
const DefaultAPIURL = "https://slack.com/api"

// ErrNoToken is returned when an API call is attempted without a token.
var ErrNoToken = errors.New("chat api token is not configured")

// APIClient calls the platform's Web API over HTTP. It serves as the user
// directory and as a Replier that posts through chat.postMessage.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewAPIClient creates a client for baseURL (DefaultAPIURL when empty).
func NewAPIClient(baseURL, token string) *APIClient {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

type apiUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	IsAdmin  bool   `json:"is_admin"`
	IsOwner  bool   `json:"is_owner"`
	IsBot    bool   `json:"is_bot"`
	Profile  struct {
		Email    string `json:"email"`
		RealName string `json:"real_name"`
	} `json:"profile"`
}

func (u apiUser) entry() *domain.DirectoryEntry {
	realName := u.RealName
	if realName == "" {
		realName = u.Profile.RealName
	}
	return &domain.DirectoryEntry{
		ChatID:   u.ID,
		Name:     u.Name,
		RealName: realName,
		Email:    u.Profile.Email,
		IsAdmin:  u.IsAdmin,
		IsOwner:  u.IsOwner,
		IsBot:    u.IsBot,
	}
}

// LookupUser fetches a user with users.info.
func (c *APIClient) LookupUser(ctx context.Context, chatID string) (*domain.DirectoryEntry, error) {
	q := url.Values{}
	q.Set("user", chatID)

	var payload struct {
		User apiUser `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "users.info?"+q.Encode(), nil, &payload); err != nil {
		return nil, fmt.Errorf("users.info %s: %w", chatID, err)
	}
	return payload.User.entry(), nil
}

// Reply posts text to channel with chat.postMessage.
func (c *APIClient) Reply(ctx context.Context, channel, text string) error {
	body := map[string]any{
		"channel": channel,
		"text":    text,
		"as_user": true,
	}
	if err := c.call(ctx, http.MethodPost, "chat.postMessage", body, nil); err != nil {
		return fmt.Errorf("chat.postMessage: %w", err)
	}
	return nil
}

// call performs one Web API request and decodes the envelope into out.
// The platform reports failures as {"ok": false, "error": "..."} with a
// 200 status, so both the status and the ok flag are checked.
func (c *APIClient) call(ctx context.Context, method, path string, in, out any) error {
	if c.token == "" {
		return ErrNoToken
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return fmt.Errorf("status=%d body=%s", res.StatusCode, string(body))
	}

	var envelope struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("api error: %s", envelope.Error)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
