package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"edgedeploy/internal/api"
	"edgedeploy/internal/response"
	"edgedeploy/pkg/logging"
	edgestrings "edgedeploy/pkg/strings"
)

const (
	// DefaultRequestTimeout bounds a single operation call.
	DefaultRequestTimeout = 300 * time.Second

	loginPath   = "/api/v1/login"
	authAPIPath = "/api/v1/auth"

	requestIDHeader = "X-Request-Id"

	subsystem = "Gateway"
)

// Credentials is the username/password pair exchanged for a bearer token.
type Credentials struct {
	Username string
	Password string
}

// Credential is the bearer token obtained at login. It is immutable and
// never refreshed for the lifetime of a run.
type Credential struct {
	token oauth2.Token
}

// Token returns the bearer token value.
func (c *Credential) Token() string {
	return c.token.AccessToken
}

// TokenSource returns a source that always yields this credential.
func (c *Credential) TokenSource() oauth2.TokenSource {
	tok := c.token
	return oauth2.StaticTokenSource(&tok)
}

// Gateway invokes control plane operations on behalf of an authenticated user.
type Gateway struct {
	console    string
	apiBase    string
	credential *Credential
	httpClient *http.Client
	base       *http.Client
	timeout    time.Duration
	runID      string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient sets the HTTP client used for login and as the base of the
// authenticated client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(g *Gateway) {
		g.base = httpClient
	}
}

// WithRequestTimeout sets the default per-call timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = d
	}
}

// WithRunID sets the correlation id sent with every request.
func WithRunID(id string) Option {
	return func(g *Gateway) {
		g.runID = id
	}
}

// New logs in to console and returns a Gateway holding the resulting
// credential. A failed login yields an *api.AuthenticationError.
func New(ctx context.Context, console string, creds Credentials, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		console: strings.TrimSuffix(console, "/"),
		base:    &http.Client{},
		timeout: DefaultRequestTimeout,
		runID:   uuid.New().String(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.apiBase = g.console + authAPIPath

	cred, err := g.login(ctx, creds)
	if err != nil {
		return nil, err
	}
	g.credential = cred

	transport := g.base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	g.httpClient = &http.Client{
		Transport: &oauth2.Transport{
			Source: cred.TokenSource(),
			Base:   transport,
		},
		CheckRedirect: g.base.CheckRedirect,
		Jar:           g.base.Jar,
	}

	logging.Debug(subsystem, "Logged in to %s (run %s)", g.console, g.runID)
	return g, nil
}

// Credential returns the credential obtained at login.
func (g *Gateway) Credential() *Credential {
	return g.credential
}

// Console returns the console base address.
func (g *Gateway) Console() string {
	return g.console
}

// RunID returns the correlation id sent with every request.
func (g *Gateway) RunID() string {
	return g.runID
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (g *Gateway) login(ctx context.Context, creds Credentials) (*Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	payload, err := json.Marshal(loginRequest{Username: creds.Username, Password: creds.Password})
	if err != nil {
		return nil, &api.AuthenticationError{Console: g.console, Reason: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.console+loginPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &api.AuthenticationError{Console: g.console, Reason: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, g.runID)

	resp, err := g.base.Do(req)
	if err != nil {
		authErr := &api.AuthenticationError{Console: g.console, Reason: classifyTransportError(err, "login", req.URL.String())}
		logging.Error(subsystem, err, "Console login failed: %s", g.console)
		return nil, authErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &api.AuthenticationError{Console: g.console, StatusCode: resp.StatusCode, Reason: err}
	}

	if resp.StatusCode != http.StatusOK {
		logging.Error(subsystem, nil, "Console login failed: %s: %d %s", g.console, resp.StatusCode, edgestrings.TruncateBody(body))
		return nil, &api.AuthenticationError{
			Console:    g.console,
			StatusCode: resp.StatusCode,
			Body:       edgestrings.TruncateBody(body),
		}
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, &api.AuthenticationError{Console: g.console, StatusCode: resp.StatusCode, Reason: fmt.Errorf("failed to parse login response: %w", err)}
	}
	if lr.Token == "" {
		return nil, &api.AuthenticationError{Console: g.console, StatusCode: resp.StatusCode, Reason: fmt.Errorf("login response carries no token")}
	}

	return &Credential{token: oauth2.Token{AccessToken: lr.Token, TokenType: "Bearer"}}, nil
}

// CallConfig holds the per-call settings of Invoke.
type CallConfig struct {
	// Timeout bounds the whole call including reading the body. Zero means
	// the gateway default.
	Timeout time.Duration

	// AcceptedCodes are the HTTP statuses treated as success.
	AcceptedCodes []int
}

// CallOption configures a single Invoke.
type CallOption func(*CallConfig)

// WithTimeout overrides the request timeout of a single call.
func WithTimeout(d time.Duration) CallOption {
	return func(c *CallConfig) {
		c.Timeout = d
	}
}

// WithAcceptedCodes replaces the set of statuses treated as success.
func WithAcceptedCodes(codes ...int) CallOption {
	return func(c *CallConfig) {
		c.AcceptedCodes = codes
	}
}

// ResolveCallOptions applies opts over the defaults.
func ResolveCallOptions(opts ...CallOption) CallConfig {
	cfg := CallConfig{AcceptedCodes: []int{http.StatusOK}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Invoke calls operation with payload as JSON body and normalizes the
// response.
//
// Errors:
//   - *api.TransportError when the call does not complete
//   - *api.OperationFailedError when the status is not accepted
//   - *api.MalformedResponseError when the body parses neither as a single
//     JSON object nor as a newline-delimited stream
func (g *Gateway) Invoke(ctx context.Context, operation string, payload interface{}, opts ...CallOption) (response.Response, error) {
	cfg := ResolveCallOptions(opts...)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = g.timeout
	}

	endpoint := g.apiBase + "/" + strings.TrimPrefix(operation, "/")

	data, err := json.Marshal(payload)
	if err != nil {
		return response.Response{}, api.NewConfigurationError(operation, "payload cannot be encoded: %v", err)
	}
	logging.Debug(subsystem, "%s %s", operation, data)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return response.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, g.runID)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		terr := classifyTransportError(err, operation, endpoint)
		logging.Error(subsystem, err, "Operation %s did not complete (%s)", operation, terr.Kind)
		return response.Response{}, terr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := classifyTransportError(err, operation, endpoint)
		logging.Error(subsystem, err, "Operation %s: reading response failed (%s)", operation, terr.Kind)
		return response.Response{}, terr
	}

	if !slices.Contains(cfg.AcceptedCodes, resp.StatusCode) {
		opErr := &api.OperationFailedError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       edgestrings.TruncateBody(body),
		}
		logging.Error(subsystem, nil, "Operation failed: %s %s: %d %s", g.console, operation, resp.StatusCode, opErr.Body)
		return response.Response{}, opErr
	}

	parsed, err := response.Parse(body)
	if err != nil {
		logging.Error(subsystem, err, "Operation %s returned a malformed response: %s", operation, edgestrings.TruncateBody(body))
		if malformed, ok := err.(*api.MalformedResponseError); ok {
			malformed.Operation = operation
		}
		return response.Response{}, err
	}

	logging.Debug(subsystem, "%s -> %d %s record(s)", operation, len(parsed.Records()), parsed.Kind())
	return parsed, nil
}
