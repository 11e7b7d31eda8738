package app

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"naya-cli/internal/config"
	"naya-cli/internal/credstore"
	"naya-cli/internal/naya"
)

// NayaApp is the application layer between the CLI and NayaService.
// It constructs all dependencies from config and manages credential
// store and log file lifecycle on Close.
type NayaApp struct {
	cfg     *config.Config
	store   naya.CredentialStore
	base    *naya.BaseURLResolver
	session *naya.SessionManager
	service *naya.NayaService
	logFile *os.File
}

// NewNayaApp creates a fully wired NayaApp from the given config.
// command identifies the CLI command being run (e.g. "login", "feed").
// The caller must call Close when done.
func NewNayaApp(cfg *config.Config, command string) (*NayaApp, error) {
	logger, logFile, err := newLogger(cfg.LogDir, command)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	store, err := credstore.NewStoreFromConfig(cfg.Credentials, log)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating credential store: %w", err)
	}

	base := naya.NewBaseURLResolver(store, cfg.APIBase, log)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	gateway := naya.NewHTTPGateway(base, httpClient, log, naya.UUIDGenerator{})

	session := naya.NewSessionManager(store, gateway, naya.RealClock{}, log)
	gateway.BindTokens(session)

	client := naya.NewClient(gateway)
	places := naya.NewPlaceResolver(client, log)
	base.OnChange(places.InvalidateCache)

	collections := naya.NewReviewCollections(log)
	comments := naya.NewCommentsCache()

	svc := naya.NewNayaService(client, session, places, collections, comments, log)

	return &NayaApp{
		cfg:     cfg,
		store:   store,
		base:    base,
		session: session,
		service: svc,
		logFile: logFile,
	}, nil
}

// Service returns the wired NayaService.
func (a *NayaApp) Service() *naya.NayaService { return a.service }

// Session returns the session manager.
func (a *NayaApp) Session() *naya.SessionManager { return a.session }

// BaseURL returns the API base resolver.
func (a *NayaApp) BaseURL() *naya.BaseURLResolver { return a.base }

// Close releases the credential store and the log file.
func (a *NayaApp) Close() error {
	var firstErr error

	if closer, ok := a.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			firstErr = fmt.Errorf("closing credential store: %w", err)
		}
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
