package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// AnonymousUsername is the reserved username of throwaway accounts.
const AnonymousUsername = "ANO"

// Credentials are the login form values.
type Credentials struct {
	Username string
	Password string
}

// AnonymousCredentials returns a fresh anonymous account login.
func AnonymousCredentials() Credentials {
	return Credentials{
		Username: AnonymousUsername,
		Password: strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
}

// Login authenticates and persists the session cookies.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	username := strings.TrimSpace(creds.Username)
	password := strings.TrimSpace(creds.Password)
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	if err := c.doForm(ctx, "/api/account/login", form, nil); err != nil {
		return err
	}
	return c.persistCookies(ctx)
}

// Logout ends the server session and forgets the local cookies, even when
// the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/account/logout", nil, nil, nil)
	expired := make([]*http.Cookie, 0)
	for _, cookie := range c.jar.Cookies(c.baseURL) {
		expired = append(expired, &http.Cookie{Name: cookie.Name, Path: "/", MaxAge: -1})
	}
	if len(expired) > 0 {
		c.jar.SetCookies(c.baseURL, expired)
	}
	if c.cookies != nil {
		if saveErr := c.cookies.SaveCookies(ctx, nil); saveErr != nil && err == nil {
			err = saveErr
		}
	}
	return err
}
