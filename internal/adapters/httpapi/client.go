package httpapi

// Package httpapi implements the AuthAPI and ProfileAPI ports against
// the marketplace REST backend. Response decoding goes through JMESPath
// expressions so a backend payload reshape is a config change, not a
// code change.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/isbul/app-core/internal/domain/auth"
	"github.com/isbul/app-core/internal/ports"
)

// ErrInvalidCredentials is returned by Login when the backend rejects
// the supplied credentials. This is the one failure the screen layer
// must surface to the user.
var ErrInvalidCredentials = errors.New("invalid credentials")

const defaultTimeout = 15 * time.Second

// ExtractExpressions names the JMESPath expressions that pull session
// fields out of login and profile responses. The defaults match the
// backend's user payload, where the object is the response root.
type ExtractExpressions struct {
	UserID   string
	Email    string
	FullName string
	Phone    string
	Role     string
}

// DefaultExtractExpressions returns expressions for the backend's
// current payload shape.
func DefaultExtractExpressions() ExtractExpressions {
	return ExtractExpressions{
		UserID:   "id",
		Email:    "email",
		FullName: "adSoyad",
		Phone:    "telefon",
		Role:     "rol",
	}
}

// Config holds configuration for the API client.
type Config struct {
	BaseURL    string
	Extract    ExtractExpressions
	HTTPClient *http.Client // Optional, defaults to a client with a 15s timeout
	Logger     *slog.Logger // Optional, defaults to slog.Default()
}

// Client talks to the marketplace backend for account operations.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	extract compiledExtract
}

var (
	_ ports.AuthAPI    = (*Client)(nil)
	_ ports.ProfileAPI = (*Client)(nil)
)

type compiledExtract struct {
	userID   jmespath.JMESPath
	email    jmespath.JMESPath
	fullName jmespath.JMESPath
	phone    jmespath.JMESPath
	role     jmespath.JMESPath
}

// NewClient creates a new API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	extract := cfg.Extract
	if extract == (ExtractExpressions{}) {
		extract = DefaultExtractExpressions()
	}
	compiled, err := compileExtract(extract)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		logger:  logger,
		extract: compiled,
	}, nil
}

func compileExtract(e ExtractExpressions) (compiledExtract, error) {
	var c compiledExtract
	for _, f := range []struct {
		name string
		expr string
		dst  *jmespath.JMESPath
	}{
		{"user id", e.UserID, &c.userID},
		{"email", e.Email, &c.email},
		{"full name", e.FullName, &c.fullName},
		{"phone", e.Phone, &c.phone},
		{"role", e.Role, &c.role},
	} {
		compiled, err := jmespath.Compile(f.expr)
		if err != nil {
			return compiledExtract{}, fmt.Errorf("compile %s expression %q: %w", f.name, f.expr, err)
		}
		*f.dst = compiled
	}
	return c, nil
}

// Login authenticates against POST /mobil/hesap/giris. A 400/401/403
// response maps to ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (auth.Session, error) {
	body := map[string]string{
		"email": creds.Email,
		"sifre": creds.Password,
	}

	payload, status, err := c.do(ctx, http.MethodPost, "/mobil/hesap/giris", body)
	if err != nil {
		return auth.Session{}, err
	}
	if isCredentialRejection(status) {
		return auth.Session{}, ErrInvalidCredentials
	}
	if status < 200 || status >= 300 {
		return auth.Session{}, fmt.Errorf("login: unexpected status %d", status)
	}

	return c.sessionFrom(payload)
}

// Register creates an account via POST /mobil/hesap/kayit.
func (c *Client) Register(ctx context.Context, reg ports.Registration) error {
	body := map[string]string{
		"email":   reg.Email,
		"sifre":   reg.Password,
		"adSoyad": reg.FullName,
		"telefon": reg.Phone,
		"rol":     string(reg.Role),
	}

	_, status, err := c.do(ctx, http.MethodPost, "/mobil/hesap/kayit", body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("register: unexpected status %d", status)
	}
	return nil
}

// Logout is a no-op trigger: the backend keeps no server-side session
// for mobile clients, so there is nothing to invalidate remotely.
func (c *Client) Logout(context.Context) error {
	return nil
}

// Fetch retrieves the current profile via GET /mobil/hesap/profil/{id}.
func (c *Client) Fetch(ctx context.Context, userID int64) (auth.Session, error) {
	path := "/mobil/hesap/profil/" + strconv.FormatInt(userID, 10)

	payload, status, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return auth.Session{}, err
	}
	if status < 200 || status >= 300 {
		return auth.Session{}, fmt.Errorf("fetch profile: unexpected status %d", status)
	}

	return c.sessionFrom(payload)
}

// do performs a request and decodes the JSON response body. Every
// request carries a fresh X-Request-ID for backend correlation.
func (c *Client) do(ctx context.Context, method, path string, body any) (any, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("close response body failed", "error", closeErr)
		}
	}()

	var payload any
	if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		// Error bodies are often plain text; keep the status and move on.
		payload = nil
	}

	return payload, resp.StatusCode, nil
}

// sessionFrom extracts a Session from a decoded response payload using
// the configured expressions.
func (c *Client) sessionFrom(payload any) (auth.Session, error) {
	id, err := searchInt(c.extract.userID, payload)
	if err != nil {
		return auth.Session{}, fmt.Errorf("extract user id: %w", err)
	}

	sess := auth.Session{
		ID:       id,
		Email:    searchString(c.extract.email, payload),
		FullName: searchString(c.extract.fullName, payload),
		Phone:    searchString(c.extract.phone, payload),
		Role:     auth.Role(searchString(c.extract.role, payload)),
	}
	if !sess.Role.Known() {
		c.logger.Warn("backend returned unrecognized role token", "role", string(sess.Role))
	}
	return sess, nil
}

func searchString(expr jmespath.JMESPath, payload any) string {
	v, err := expr.Search(payload)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func searchInt(expr jmespath.JMESPath, payload any) (int64, error) {
	v, err := expr.Search(payload)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	case nil:
		return 0, errors.New("value is absent")
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}

func isCredentialRejection(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}
