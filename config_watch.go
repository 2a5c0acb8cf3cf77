package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchConfig calls onChange with the freshly loaded config each time
// dir/config.yml is written, until ctx is done. Broken edits are logged and
// skipped so the running settings stay in place.
func watchConfig(ctx context.Context, dir string, onChange func(*AppConfig)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace the file rather than write it.
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != "config.yml" || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := LoadAppConfig(dir)
				if err != nil {
					log.Printf("config reload skipped: %v", err)
					continue
				}
				dbg("config reloaded")
				onChange(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("config watcher: %v", err)
			}
		}
	}()
	return nil
}
