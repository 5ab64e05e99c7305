package config

import (
	"context"
	"errors"
	"fmt"
	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"log"
	"os"
	"path/filepath"
	"time"
)

// reloadTries bounds how many times a changed file is re-read before giving up on that change
const reloadTries = 5

// Watch calls onChange (from the watching goroutine) with every valid new version of the file at path, until
// ctx is done. Invalid versions are logged and skipped.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	expanded = filepath.Clean(expanded)
	watcher, err := newFsWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory: many editors save by replacing the file
	if err = watcher.Add(filepath.Dir(expanded)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(expanded), err)
	}
	log.Println("[Config] Watching", expanded)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("[Config] Watcher error:", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != expanded || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := reload(ctx, expanded)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Println("[Config] Ignoring change:", err)
				continue
			}
			log.Println("[Config] Reloaded", expanded)
			onChange(cfg)
		}
	}
}

// reload re-reads a file that just changed. The file may be missing or half written for a short while.
func reload(ctx context.Context, path string) (*Config, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return backoff.Retry(ctx, func() (*Config, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return Parse(data)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(reloadTries))
}
