package callback

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/joeydtaylor/asymmetric/pkg/codec"
)

// ClientCredentials fetches a bearer token with the OAuth2 client-credentials
// grant and reuses it until shortly before it expires.
type ClientCredentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Client       HTTPDoer

	mu      sync.Mutex
	token   string
	expires time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// expirySkew renews tokens this long before the issuer's expiry.
const expirySkew = 30 * time.Second

func (c *ClientCredentials) Issue(ctx context.Context, _ Target) (Credential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.expires) {
		return Credential{HeaderName: "Authorization", HeaderValue: "Bearer " + c.token}, nil
	}

	tok, ttl, err := c.fetch(ctx)
	if err != nil {
		return Credential{}, err
	}
	c.token = tok
	c.expires = time.Now().Add(ttl - min(expirySkew, ttl/2))
	return Credential{HeaderName: "Authorization", HeaderValue: "Bearer " + tok}, nil
}

func (c *ClientCredentials) fetch(ctx context.Context) (string, time.Duration, error) {
	if c.TokenURL == "" || c.ClientID == "" || c.ClientSecret == "" {
		return "", 0, fmt.Errorf("oauth: token_url, client id and secret are required")
	}
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if len(c.Scopes) > 0 {
		form.Set("scope", strings.Join(c.Scopes, " "))
	}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	hc := c.Client
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	res, err := hc.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("oauth: %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", 0, fmt.Errorf("oauth: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", 0, fmt.Errorf("oauth: token endpoint answered %d", res.StatusCode)
	}

	var tr tokenResponse
	if err := codec.JSON.Unmarshal(body, &tr); err != nil {
		return "", 0, fmt.Errorf("oauth: decode token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", 0, fmt.Errorf("oauth: empty access_token")
	}
	ttl := time.Duration(tr.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return tr.AccessToken, ttl, nil
}
