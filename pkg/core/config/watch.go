package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
)

// ChangeHandler receives a freshly loaded configuration, or the error that
// prevented loading it
type ChangeHandler func(cfg *Config, err error)

// reloadDelay coalesces the burst of events editors produce on save
const reloadDelay = 100 * time.Millisecond

// Watch reloads path whenever it changes and passes the result to onChange
// until ctx is done. The directory is watched rather than the file so that
// atomic saves (write temp file, rename) are seen.
func Watch(ctx context.Context, path string, onChange ChangeHandler) error {
	if path == "" {
		return mdwerror.New("file path required for watching").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.Watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create file watcher").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Watch")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return mdwerror.Wrap(err, "failed to resolve config path").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Watch").
			WithDetail("path", path)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return mdwerror.Wrap(err, "failed to watch config directory").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Watch").
			WithDetail("path", path)
	}

	go watchLoop(ctx, watcher, abs, path, onChange)
	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, abs, path string, onChange ChangeHandler) {
	defer watcher.Close()

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(reloadDelay)
			}

		case <-timer.C:
			onChange(Load(path))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			onChange(nil, mdwerror.Wrap(err, "config watcher error").
				WithCode(mdwerror.CodeConfigError).
				WithOperation("config.Watch"))
		}
	}
}
