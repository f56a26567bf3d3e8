package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/skyhigh/internal/config"
	"github.com/five82/skyhigh/internal/endpoint"
	"github.com/five82/skyhigh/internal/flow"
	"github.com/five82/skyhigh/internal/logger"
	"github.com/five82/skyhigh/internal/prefs"
	"github.com/five82/skyhigh/internal/skyhigh"
	"github.com/five82/skyhigh/internal/state"
	"github.com/five82/skyhigh/internal/ui"
)

// Options configure the client side.
type Options struct {
	ConfigPath string
	EnvFile    string
	PrefsPath  string // empty uses ~/.config/skyhigh/prefs.toml
	PollEvery  int    // seconds; zero uses default
	Debug      bool
}

// Env is the wired client shared by the TUI and the one-shot commands.
type Env struct {
	Config   config.Config
	Logger   *slog.Logger
	Endpoint endpoint.Resolved
	Client   *skyhigh.Client

	closeLog func() error
}

// Setup loads configuration, opens the log file and resolves the API base
// once. Callers must Close the returned Env.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(config.Options{Path: opts.ConfigPath, EnvFile: opts.EnvFile})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logger.New(logger.Options{Path: cfg.LogFile, Debug: opts.Debug})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	origin, err := endpoint.ParseOrigin(cfg.Origin)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("origin: %w", err)
	}

	client, err := skyhigh.NewClient(cfg.Origin)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	ep := endpoint.Resolve(cfg.APIURL, origin, log)
	log.Info("api base resolved", "api_base", ep.String(), "origin", origin.Origin)

	return &Env{
		Config:   cfg,
		Logger:   log,
		Endpoint: ep,
		Client:   client,
		closeLog: closeLog,
	}, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// Run boots the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		env.Logger.Warn("prefs unreadable, using defaults", "error", err)
	}

	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Populate the store before the first frame, then keep it fresh.
	refresh(ctx, store, env.Client, env.Endpoint, env.Logger)
	StartPoller(ctx, store, env.Client, env.Endpoint, interval, env.Logger)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return ui.Run(ui.Options{
		Context:  ctx,
		Upload:   flow.NewUpload(env.Client, env.Logger),
		Message:  flow.NewMessage(env.Client, env.Logger),
		Endpoint: env.Endpoint,
		Store:    store,
		Refresh: func(ctx context.Context) {
			refresh(ctx, store, env.Client, env.Endpoint, env.Logger)
		},
		LogPath:   env.Config.LogFile,
		PollTick:  time.Second,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Logger:    env.Logger,
	})
}
