// Package firebaseauth implements the AuthProvider port against the Firebase
// Authentication email/password sign-in endpoint.
package firebaseauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AuthProvider = (*Client)(nil)

const defaultBaseURL = "https://identitytoolkit.googleapis.com"

// Client signs operators in with email and password.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Client for the project identified by apiKey.
func NewClient(apiKey string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and
// base URL, for pointing at an httptest server or the auth emulator.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Name implements driven.AuthProvider.
func (c *Client) Name() string { return "firebase" }

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID   string `json:"localId"`
	Email     string `json:"email"`
	IDToken   string `json:"idToken"`
	ExpiresIn string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges email and password for an ID token. Rejected credentials
// come back as *model.AuthError; transport and server failures as plain
// errors.
func (c *Client) SignIn(ctx context.Context, email, password string) (model.Identity, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return model.Identity{}, fmt.Errorf("marshal sign-in request: %w", err)
	}

	endpoint := c.baseURL + "/v1/accounts:signInWithPassword?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Identity{}, fmt.Errorf("create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Identity{}, fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Identity{}, decodeError(resp)
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Identity{}, fmt.Errorf("decode sign-in response: %w", err)
	}
	if out.IDToken == "" {
		return model.Identity{}, errors.New("sign-in response carried no id token")
	}

	identity := model.Identity{
		UID:   out.LocalID,
		Email: out.Email,
		Token: out.IDToken,
	}
	if secs, err := strconv.Atoi(out.ExpiresIn); err == nil && secs > 0 {
		identity.ExpiresIn = time.Duration(secs) * time.Second
	}
	return identity, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var er errorResponse
	if err := json.Unmarshal(raw, &er); err != nil || er.Error.Message == "" {
		return fmt.Errorf("sign-in returned status %d", resp.StatusCode)
	}

	if reason, ok := rejectionReason(er.Error.Message); ok {
		return &model.AuthError{Reason: reason}
	}
	return fmt.Errorf("sign-in returned status %d: %s", resp.StatusCode, er.Error.Message)
}

// rejectionReason maps identity toolkit error codes that mean "these
// credentials are not accepted" to a message fit for the login form. Codes
// may carry a suffix such as "TOO_MANY_ATTEMPTS_TRY_LATER : Access ...".
func rejectionReason(message string) (string, bool) {
	code, _, _ := strings.Cut(message, " ")
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL":
		return "invalid email or password", true
	case "MISSING_PASSWORD", "MISSING_EMAIL":
		return "email and password are required", true
	case "USER_DISABLED":
		return "this account has been disabled", true
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return "too many attempts, try again later", true
	default:
		return "", false
	}
}
