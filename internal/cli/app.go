package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/amterp/tally/internal/config"
	"github.com/amterp/tally/internal/logging"
	"github.com/amterp/tally/internal/prompt"
	"github.com/amterp/tally/internal/service"
	"github.com/amterp/tally/internal/store"
)

// AppOptions carries the global flags.
type AppOptions struct {
	ConfigPath string
	LogLevel   string

	// Interactive selects the huh prompter; otherwise prompts fail.
	Interactive bool

	// OwnsTerminal routes logs away from the terminal (to [log] file or
	// nowhere) for front-ends that draw on it.
	OwnsTerminal bool
}

// App holds all the dependencies for a front-end.
type App struct {
	Config     *config.Config
	ConfigPath string
	Session    *service.Session
	Prompter   prompt.Prompter
	logCloser  io.Closer
}

// NewApp loads config, sets up logging and creates an empty session.
func NewApp(opts AppOptions) (*App, error) {
	if err := checkLogLevel(opts.LogLevel); err != nil {
		return nil, err
	}

	configPath := config.ResolvePath(opts.ConfigPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logCloser, err := initLogging(cfg, opts)
	if err != nil {
		return nil, err
	}

	var prompter prompt.Prompter
	if opts.Interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	session := service.NewSession(store.NewCounterStore(), service.Options{
		DefaultTitle: cfg.DefaultTitle,
		MatchMode:    cfg.MatchMode(),
	})

	log := logging.Component("app")
	log.Debug().
		Str("config", configPath).
		Str("match", string(cfg.MatchMode())).
		Msg("session ready")

	return &App{
		Config:     cfg,
		ConfigPath: configPath,
		Session:    session,
		Prompter:   prompter,
		logCloser:  logCloser,
	}, nil
}

func initLogging(cfg *config.Config, opts AppOptions) (io.Closer, error) {
	logCfg := logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	}
	if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}

	if opts.OwnsTerminal || cfg.Log.File != "" {
		return logging.InitFile(logCfg, cfg.Log.File)
	}
	logging.Init(logCfg)
	return nil, nil
}

// Close releases the log file, if any.
func (a *App) Close() {
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// Fatal prints an error and exits.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
