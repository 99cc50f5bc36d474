package profile

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/querybind/core/logger"
)

// DefaultReloadDebounce is how long Watch waits for writes to settle.
const DefaultReloadDebounce = 200 * time.Millisecond

// Watch reloads dir from the fixture at path whenever the file changes and
// blocks until ctx is cancelled. The parent directory is watched so editors
// that replace the file by rename are handled. A fixture that fails to parse
// is logged and the previous content is kept.
func Watch(ctx context.Context, dir *Directory, path string, debounce time.Duration, log *slog.Logger) error {
	if log == nil {
		log = logger.Discard()
	}
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	log.InfoContext(ctx, "watching profile fixture",
		logger.Component("profile"),
		slog.String("file", path),
	)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WarnContext(ctx, "profile watcher error", logger.Component("profile"), logger.Error(err))

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != path || !evt.Has(fsnotify.Create|fsnotify.Write|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			people, err := LoadFile(path)
			if err != nil {
				log.ErrorContext(ctx, "profile reload failed", logger.Component("profile"), logger.Error(err))
				continue
			}
			dir.Replace(people)
			log.InfoContext(ctx, "profile fixture reloaded",
				logger.Component("profile"),
				logger.Count("people", len(people)),
			)
		}
	}
}
