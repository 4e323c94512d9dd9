// Package auth caches the bearer credential for the upstream
// flight-data API and refreshes it ahead of expiry.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"faresearch/internal/ratelimit"
)

// Error indicates the credential endpoint rejected our client identity,
// or no identity is configured at all. It aborts the whole search
// request rather than being retried.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "auth: " + e.Reason + ": " + e.Err.Error()
	}
	return "auth: " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	// Skew refreshes the credential this long before its expiry.
	Skew       time.Duration
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter
}

func DefaultConfig() Config {
	return Config{
		Skew: 30 * time.Second,
	}
}

// TokenCache holds a single process-lifetime credential, replaced in
// place on refresh. The credential value never leaves this package;
// callers only ever see the token string.
type TokenCache struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func NewTokenCache(cfg Config, log zerolog.Logger) *TokenCache {
	if cfg.Skew <= 0 {
		cfg.Skew = 30 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &TokenCache{
		cfg:  cfg,
		http: client,
		log:  log,
	}
}

// Token returns the cached bearer token, refreshing it first when it is
// absent or expires within the safety skew. Refresh is serialized behind
// the write lock; the no-refresh path stays on the read lock.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.fresh() {
		token := c.token
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh() {
		return c.token, nil
	}

	token, ttl, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	c.expiresAt = time.Now().Add(ttl)
	c.log.Debug().Dur("ttl", ttl).Msg("refreshed upstream credential")
	return token, nil
}

// fresh reports whether the cached token is usable. Callers hold a lock.
func (c *TokenCache) fresh() bool {
	return c.token != "" && time.Until(c.expiresAt) > c.cfg.Skew
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *TokenCache) fetch(ctx context.Context) (string, time.Duration, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", 0, &Error{Reason: "client credentials not configured"}
	}
	if c.cfg.Limiter != nil {
		if err := c.cfg.Limiter.Wait(ctx, "oauth"); err != nil {
			return "", 0, err
		}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, &Error{Reason: fmt.Sprintf("credential endpoint responded %d", resp.StatusCode)}
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, &Error{Reason: "malformed credential response", Err: err}
	}
	if body.AccessToken == "" {
		return "", 0, &Error{Reason: "credential response missing access_token"}
	}
	ttl := time.Duration(body.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return body.AccessToken, ttl, nil
}
