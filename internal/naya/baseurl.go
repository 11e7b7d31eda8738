package naya

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// DefaultBaseURL is the canonical fallback when no override is configured
// and every heuristic fails.
const DefaultBaseURL = "http://127.0.0.1:8000/api/v1"

// defaultAPIPath is substituted when an override names a bare origin.
const defaultAPIPath = "/api/v1"

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// NormalizeBaseURL turns free-form input into the canonical absolute
// prefix all requests are issued against: scheme + host + port + path,
// no trailing slash, no query or fragment. Loopback hosts default to
// http, everything else to https. The function is idempotent.
func NormalizeBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", NewError(KindInvalidConfiguration, "the API base URL cannot be empty")
	}

	if !schemePattern.MatchString(candidate) {
		scheme := "https://"
		if isLoopbackInput(candidate) {
			scheme = "http://"
		}
		candidate = scheme + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return "", WrapError(err, KindInvalidConfiguration, "the API base URL is not valid")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", NewError(KindInvalidConfiguration, "the API base URL must use http or https")
	}

	path := u.EscapedPath()
	if path == "" || path == "/" {
		path = defaultAPIPath
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return u.Scheme + "://" + u.Host + path, nil
}

// isLoopbackInput reports whether a scheme-less candidate names a
// loopback host, in which case plain http is the sane default.
func isLoopbackInput(candidate string) bool {
	lowered := strings.ToLower(candidate)
	for _, prefix := range []string{"localhost", "127.", "0.0.0.0", "::1", "[::1]"} {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}

// BaseURLResolver owns the API base the gateway targets. Resolution
// order: persisted override, configured value (config file or NAYA_API_BASE),
// then DefaultBaseURL. Resolution never fails past this boundary —
// invalid candidates are logged and skipped.
type BaseURLResolver struct {
	store      CredentialStore
	logger     Logger
	configured string

	mu       sync.RWMutex
	current  string
	onChange []func()
}

// NewBaseURLResolver resolves the initial base URL. configured may be
// empty when neither the config file nor the environment supplies one.
func NewBaseURLResolver(store CredentialStore, configured string, logger Logger) *BaseURLResolver {
	r := &BaseURLResolver{store: store, logger: logger, configured: configured}
	r.current = r.resolve()
	return r
}

func (r *BaseURLResolver) resolve() string {
	if stored, ok := r.store.Get(KeyAPIBase); ok && stored != "" {
		normalized, err := NormalizeBaseURL(stored)
		if err == nil {
			return normalized
		}
		r.logger.Warn("stored API base URL is invalid, falling back", "value", stored, "error", err)
		r.store.Remove(KeyAPIBase)
	}

	if r.configured != "" {
		normalized, err := NormalizeBaseURL(r.configured)
		if err == nil {
			return normalized
		}
		r.logger.Warn("configured API base URL is invalid, falling back", "value", r.configured, "error", err)
	}

	return DefaultBaseURL
}

// Current returns the base URL requests are issued against.
func (r *BaseURLResolver) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Set normalizes and installs a new base URL. When persist is true the
// normalized value is stored for future runs. Registered change hooks
// fire so dependent caches (place ids) can invalidate.
func (r *BaseURLResolver) Set(raw string, persist bool) (string, error) {
	normalized, err := NormalizeBaseURL(raw)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.current = normalized
	hooks := append([]func(){}, r.onChange...)
	r.mu.Unlock()

	if persist {
		r.store.Set(KeyAPIBase, normalized)
	} else {
		r.store.Remove(KeyAPIBase)
	}

	for _, fn := range hooks {
		fn()
	}
	return normalized, nil
}

// Reset drops any persisted override and returns to the configured or
// canonical default. Change hooks fire.
func (r *BaseURLResolver) Reset() string {
	r.store.Remove(KeyAPIBase)

	r.mu.Lock()
	r.current = r.resolve()
	current := r.current
	hooks := append([]func(){}, r.onChange...)
	r.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return current
}

// OnChange registers a hook invoked after every base URL change.
// Cached identifiers are meaningless against a different backend.
func (r *BaseURLResolver) OnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}
