// Package oauth runs the authorization-code login against the identity
// provider and reads the signed-in user's profile.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"LabelCMS/config"

	"golang.org/x/oauth2"
)

// ErrMissingOpenID is returned when the provider profile has no openId.
var ErrMissingOpenID = errors.New("userinfo: missing openId")

// UserInfo is the provider's profile of the signed-in user.
type UserInfo struct {
	OpenID      string `json:"openId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	LoginMethod string `json:"loginMethod"`
	Platform    string `json:"platform"`
}

// Method returns the login method, falling back to the platform.
func (u *UserInfo) Method() string {
	if u.LoginMethod != "" {
		return u.LoginMethod
	}
	return u.Platform
}

// Provider is the part of the OAuth flow the HTTP layer depends on.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error)
}

// Client implements Provider with golang.org/x/oauth2.
type Client struct {
	conf        *oauth2.Config
	userInfoURL string
}

// NewClient builds a client from the OAUTH_* settings.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
			RedirectURL: cfg.OAuthRedirectURL,
			Scopes:      cfg.OAuthScopes,
		},
		userInfoURL: cfg.OAuthUserInfoURL,
	}
}

func (c *Client) AuthCodeURL(state string) string {
	return c.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return tok, nil
}

// UserInfo fetches the profile with the access token.
func (c *Client) UserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	resp, err := c.conf.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo: status %d: %s", resp.StatusCode, body)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.OpenID == "" {
		return nil, ErrMissingOpenID
	}
	return &info, nil
}
