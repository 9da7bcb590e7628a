package sessionbus

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the env file and invokes fn on every started/stopped
// transition until ctx is cancelled. The initial state is not reported. Like
// IsRunning, transitions reflect the env-file rendezvous, not true daemon
// liveness.
func (s *Supervisor) Watch(ctx context.Context, fn func(running bool)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// the file itself comes and goes, so watch its directory
	if err := watcher.Add(filepath.Dir(s.EnvFilePath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.EnvFilePath), err)
	}

	last := s.IsRunning()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.EnvFilePath) {
				continue
			}
			if now := s.IsRunning(); now != last {
				last = now
				fn(now)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
