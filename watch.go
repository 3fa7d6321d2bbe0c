package plate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn every time the file at path is written or recreated.
// Bursts of events are collapsed into one call after delay has passed without
// a new event. fn runs on the calling goroutine, so two calls never overlap.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, delay time.Duration, fn func(context.Context)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace the file instead of writing it in place,
	// so the parent directory is watched.
	if err := w.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(delay, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			fn(ctx)

		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			return fmt.Errorf("watcher failed: %w", err)
		}
	}
}
