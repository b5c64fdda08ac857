package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/patelanuj7/calculatorapp/foundation/calc"
	mdwlog "github.com/patelanuj7/calculatorapp/foundation/core/log"
	"github.com/patelanuj7/calculatorapp/internal/history/store"
	"github.com/patelanuj7/calculatorapp/pkg/core/cache"
	"github.com/patelanuj7/calculatorapp/pkg/core/config"
	"github.com/patelanuj7/calculatorapp/pkg/core/logging"
)

// app bundles what every subcommand builds from the configuration
type app struct {
	config  *config.Config
	base    *mdwlog.Logger
	engine  *calc.Engine
	history store.HistoryStore
	logFile *os.File

	// named loggers handed out, so a reload can change their level
	mu      sync.Mutex
	loggers []*mdwlog.Logger
}

// loadApp resolves the configuration and builds logging and the engine.
// History is opened on demand with openHistory.
func loadApp() (*app, error) {
	cfg, err := config.LoadFromEnv(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{config: cfg}

	logCfg := logging.DefaultLoggerConfig(cfg.General.Name)
	logCfg.Level = cfg.General.LogLevel
	logCfg.Format = cfg.General.LogFormat
	if verbose {
		logCfg.Level = "debug"
	}
	if cfg.General.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		a.logFile = f
		logCfg.AdditionalOutputs = append(logCfg.AdditionalOutputs, f)
	}
	a.base = logging.Configure(logCfg)

	engine, err := calc.New(calc.Options{
		Logger:          a.named("calc-engine"),
		MaxInputLength:  cfg.Calc.MaxInputLength,
		CharacterPolicy: cfg.CharacterPolicy(),
		DivisionPolicy:  cfg.DivisionPolicy(),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = engine

	return a, nil
}

// openHistory opens the history store unless disabled in the configuration
func (a *app) openHistory() (store.HistoryStore, error) {
	if !a.config.History.Enabled {
		return nil, nil
	}
	if a.history != nil {
		return a.history, nil
	}

	history, err := store.NewSQLiteHistoryStore(store.SQLiteConfig{
		Path:       a.config.History.Path,
		MaxEntries: a.config.History.MaxEntries,
	})
	if err != nil {
		return nil, err
	}
	a.history = history
	return history, nil
}

// resultCache builds the result cache, nil when disabled
func (a *app) resultCache() *cache.ResultCache {
	if a.config.Calc.CacheSize <= 0 {
		return nil
	}
	return cache.NewResultCache(cache.ResultsConfig{
		MaxEntries: a.config.Calc.CacheSize,
		TTL:        a.config.Calc.CacheTTL.Duration,
	})
}

// policyKey scopes cached results by the policies in effect
func (a *app) policyKey() string {
	return fmt.Sprintf("%s/%s/%d", a.engine.DivisionPolicy(), a.engine.CharacterPolicy(), a.config.Calc.MaxInputLength)
}

func (a *app) named(name string) *mdwlog.Logger {
	return a.track(a.base.WithName(name))
}

func (a *app) logger(name string) *logging.Logger {
	logger := logging.Wrap(a.base, name)
	a.track(logger.Logger)
	return logger
}

func (a *app) track(logger *mdwlog.Logger) *mdwlog.Logger {
	a.mu.Lock()
	a.loggers = append(a.loggers, logger)
	a.mu.Unlock()
	return logger
}

// setLevel changes the level of every logger built by the app
func (a *app) setLevel(level mdwlog.Level) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.base.SetLevel(level)
	for _, logger := range a.loggers {
		logger.SetLevel(level)
	}
}

// Close releases the history store and the log file
func (a *app) Close() {
	if a.history != nil {
		a.history.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
