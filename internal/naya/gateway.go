package naya

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CallOptions shapes a single backend request.
type CallOptions struct {
	Method string

	// Body is JSON-marshalled when non-nil. For pre-encoded payloads
	// (multipart uploads) use RawBody + ContentType instead.
	Body        any
	RawBody     []byte
	ContentType string
	Header      http.Header

	// RequiresAuth attaches a bearer token; the call fails before any
	// network traffic when the selected token is absent.
	RequiresAuth bool

	// SkipRefresh disables the transparent refresh-and-retry on 401.
	// Set on the refresh call itself.
	SkipRefresh bool

	// UseRefreshToken authenticates with the refresh token instead of
	// the access token. Implies no refresh-and-retry.
	UseRefreshToken bool
}

// TokenSource supplies bearer tokens and the refresh hook the gateway
// uses to resolve a 401. Implemented by the session manager.
type TokenSource interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)

	// AccessTokenExpired reports whether the access token's exp claim is
	// in the past, letting the gateway refresh before a doomed call.
	AccessTokenExpired() bool

	// Refresh obtains a new access token. Concurrent calls are coalesced;
	// a failed refresh clears the session exactly once.
	Refresh(ctx context.Context) error

	// Invalidate clears the session after an unrecoverable 401.
	Invalidate()
}

// Gateway is the single choke point for all backend calls. out, when
// non-nil, receives the decoded JSON response body.
type Gateway interface {
	Call(ctx context.Context, path string, opts CallOptions, out any) error
}

// HTTPGateway implements Gateway over net/http. Timeouts are not
// modelled here; the injected client's defaults apply.
type HTTPGateway struct {
	base   *BaseURLResolver
	client *http.Client
	logger Logger
	idgen  IDGenerator
	tokens TokenSource
}

var _ Gateway = (*HTTPGateway)(nil)

// NewHTTPGateway creates a gateway issuing requests against the
// resolver's current base URL. BindTokens must be called before any
// authenticated request.
func NewHTTPGateway(base *BaseURLResolver, client *http.Client, logger Logger, idgen IDGenerator) *HTTPGateway {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPGateway{base: base, client: client, logger: logger, idgen: idgen}
}

// BindTokens attaches the token source. Split from the constructor
// because the session manager itself issues calls through the gateway.
func (g *HTTPGateway) BindTokens(tokens TokenSource) {
	g.tokens = tokens
}

// Call performs the request with the retry-once-on-401 policy wrapped
// around a single transport round trip.
func (g *HTTPGateway) Call(ctx context.Context, path string, opts CallOptions, out any) error {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}

	token, err := g.selectToken(opts)
	if err != nil {
		return err
	}

	// Proactive refresh: a visibly expired access token gets one refresh
	// attempt up front. The refresh failure is the call's failure; the
	// doomed round trip is skipped.
	if refreshEligible(http.StatusUnauthorized, opts, g.hasRefreshToken()) && g.tokens.AccessTokenExpired() {
		if rerr := g.tokens.Refresh(ctx); rerr != nil {
			return rerr
		}
		if fresh, ok := g.tokens.AccessToken(); ok {
			token = fresh
		}
	}

	status, body, err := g.roundTrip(ctx, path, opts, token)
	if err != nil {
		return err
	}

	if refreshEligible(status, opts, g.hasRefreshToken()) {
		if rerr := g.tokens.Refresh(ctx); rerr != nil {
			return rerr
		}
		fresh, ok := g.tokens.AccessToken()
		if !ok {
			return NewError(KindSessionExpired, "session expired, please log in again")
		}
		status, body, err = g.roundTrip(ctx, path, opts, fresh)
		if err != nil {
			return err
		}
	}

	return g.finish(status, body, opts, out)
}

// refreshEligible is the retry policy: exactly one transparent refresh
// per call, never for refresh-token-authenticated or opted-out calls.
func refreshEligible(status int, opts CallOptions, hasRefreshToken bool) bool {
	return status == http.StatusUnauthorized &&
		opts.RequiresAuth &&
		!opts.SkipRefresh &&
		!opts.UseRefreshToken &&
		hasRefreshToken
}

func (g *HTTPGateway) hasRefreshToken() bool {
	if g.tokens == nil {
		return false
	}
	_, ok := g.tokens.RefreshToken()
	return ok
}

// selectToken picks the credential the call authenticates with, failing
// fast when it is absent.
func (g *HTTPGateway) selectToken(opts CallOptions) (string, error) {
	if !opts.RequiresAuth {
		return "", nil
	}
	if g.tokens == nil {
		return "", NewError(KindAuthenticationRequired, "authentication required")
	}

	var token string
	var ok bool
	if opts.UseRefreshToken {
		token, ok = g.tokens.RefreshToken()
	} else {
		token, ok = g.tokens.AccessToken()
	}
	if !ok || token == "" {
		return "", NewError(KindAuthenticationRequired, "authentication required")
	}
	return token, nil
}

// roundTrip performs one request/response cycle and reads the body.
// Transport failures come back as NETWORK_UNREACHABLE with a diagnostic.
func (g *HTTPGateway) roundTrip(ctx context.Context, path string, opts CallOptions, token string) (int, []byte, error) {
	base := g.base.Current()
	url := base + path

	var reader io.Reader
	contentType := ""
	switch {
	case opts.RawBody != nil:
		reader = bytes.NewReader(opts.RawBody)
		contentType = opts.ContentType
	case opts.Body != nil:
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, url, reader)
	if err != nil {
		return 0, nil, WrapError(err, KindInvalidConfiguration, fmt.Sprintf("cannot build request for %s", url))
	}

	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", g.idgen.New())

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("network error calling API", "url", url, "error", err)
		return 0, nil, g.networkError(err, base)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, WrapError(err, KindNetworkUnreachable,
			fmt.Sprintf("connection to %s dropped while reading the response", base))
	}

	g.logger.Debug("api call", "method", opts.Method, "path", path, "status", resp.StatusCode)
	return resp.StatusCode, body, nil
}

// finish interprets the final status and body after any retry.
func (g *HTTPGateway) finish(status int, body []byte, opts CallOptions, out any) error {
	if status < 200 || status > 299 {
		message := serverMessage(body)
		if status == http.StatusUnauthorized && opts.RequiresAuth {
			// Refresh already attempted or unavailable.
			if g.tokens != nil {
				g.tokens.Invalidate()
			}
			return &Error{Kind: KindSessionExpired, Message: "session expired, please log in again", Status: status}
		}
		if message == "" {
			message = fmt.Sprintf("the request failed (HTTP %d)", status)
		}
		return &Error{Kind: KindRequestFailed, Message: message, Status: status}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		// Empty or non-JSON bodies are tolerated as an empty object.
		g.logger.Warn("response body is not valid JSON, ignoring", "error", err)
	}
	return nil
}

// serverMessage extracts the server-supplied error text when present.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// networkError rewrites transport failures into something actionable.
// The scheme-mismatch cases get a specific message because Go reports
// them in terms most users cannot act on.
func (g *HTTPGateway) networkError(err error, base string) *Error {
	text := err.Error()
	message := fmt.Sprintf("cannot reach the API at %s: check the connection and the server address", base)

	switch {
	case strings.Contains(text, "server gave HTTP response to HTTPS client"):
		message = fmt.Sprintf("the client is configured for HTTPS but the API at %s answers in plain HTTP; switch the base URL to http:// or put the API behind TLS", base)
	case strings.Contains(text, "http: no Host in request URL"):
		message = fmt.Sprintf("the API base URL %s is malformed", base)
	case strings.Contains(text, "certificate"):
		message = fmt.Sprintf("the TLS certificate of the API at %s could not be verified", base)
	case strings.Contains(text, "connection refused"):
		message = fmt.Sprintf("nothing is listening at %s: is the API server running?", base)
	}

	return WrapError(err, KindNetworkUnreachable, message)
}
