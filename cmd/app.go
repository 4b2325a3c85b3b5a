package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/config"
	"github.com/abhisek/fluenz/internal/content"
	"github.com/abhisek/fluenz/internal/llm"
	"github.com/abhisek/fluenz/internal/progress"
	"github.com/abhisek/fluenz/internal/session"
	"github.com/abhisek/fluenz/internal/store"
)

// app holds the dependencies of one command invocation.
type app struct {
	db       *store.Store
	remote   *store.PostgresProgressRepo
	repo     store.ProgressRepo // nil for guests
	progress *progress.Store
	session  *session.Service
	content  *content.Service
}

// openApp opens the local database, the configured progress backend and
// the learner's progress store.
func openApp(ctx context.Context) (*app, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &app{db: db}

	if !cfg.IsGuest() {
		switch cfg.Store.Driver {
		case config.DriverPostgres:
			pg, err := store.OpenPostgres(ctx, store.PostgresConfig{
				DSN:             cfg.Store.DSN,
				MaxConns:        cfg.Store.MaxConns,
				MaxConnLifetime: cfg.Store.MaxConnLifetime,
			})
			if err != nil {
				db.Close()
				return nil, fmt.Errorf("open postgres: %w", err)
			}
			a.remote = pg
			a.repo = pg
		default:
			a.repo = db.ProgressRepo()
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		a.closeBackends()
		return nil, err
	}

	userID := cfg.User
	if cfg.IsGuest() {
		userID = ""
	}
	ps, err := progress.Open(ctx, progress.Options{
		UserID: userID,
		Repo:   a.repo,
		Events: db.EventRepo(),
		Clock:  calendar.SystemClock{Location: loc},
		Logger: log,
		OnPersistError: func(err error) {
			fmt.Fprintln(os.Stderr, "warning: progress not saved:", err)
		},
	})
	if err != nil {
		a.closeBackends()
		return nil, err
	}
	a.progress = ps
	a.session = session.New(ps, lazyWords{a}, log)
	return a, nil
}

// Close flushes pending progress writes and closes the backends.
func (a *app) Close() {
	if err := a.progress.Close(context.Background()); err != nil {
		log.Warn("close progress store", zap.Error(err))
	}
	a.closeBackends()
}

func (a *app) closeBackends() {
	if a.remote != nil {
		a.remote.Close()
	}
	a.db.Close()
}

// contentService builds the LLM-backed content service on first use.
func (a *app) contentService(ctx context.Context) (*content.Service, error) {
	if a.content != nil {
		return a.content, nil
	}
	provider, err := newProvider(ctx, a.db.EventRepo())
	if err != nil {
		return nil, err
	}
	a.content = content.NewService(provider, content.DefaultConfig(), log)
	return a.content, nil
}

// lazyWords defers building the content service until a flow needs it.
type lazyWords struct{ a *app }

func (w lazyWords) WordDetails(ctx context.Context, words []string) ([]content.VocabularyWord, error) {
	svc, err := w.a.contentService(ctx)
	if err != nil {
		return nil, err
	}
	return svc.WordDetails(ctx, words)
}

// newProvider uses the configured LLM provider, falling back to the first
// conventional API key found in the environment.
func newProvider(ctx context.Context, events store.EventRepo) (llm.Provider, error) {
	llmCfg := llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLM.Timeout,
	}
	if llmCfg.Provider == "" {
		found, err := llm.DiscoverConfig()
		if err != nil {
			if errors.Is(err, llm.ErrNoProvider) {
				return nil, fmt.Errorf("%w: set llm.provider or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY", err)
			}
			return nil, err
		}
		found.Timeout = cfg.LLM.Timeout
		llmCfg = found
	}
	return llm.NewProvider(ctx, llmCfg, events, log)
}

// resolveDBPath returns store.path (set by --db or config), then FLUENZ_DB,
// then the default XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.Store.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// explainGuest adds a hint to errors that only signed-in learners hit.
func explainGuest(err error) error {
	if errors.Is(err, session.ErrGuest) {
		return fmt.Errorf("%w: pass --user or set FLUENZ_USER", err)
	}
	return err
}
