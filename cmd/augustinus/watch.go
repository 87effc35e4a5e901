package main

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const configDebounce = 100 * time.Millisecond

// configChangedMsg is sent when the config file was written.
type configChangedMsg struct{}

// configWatcher reports changes to one config file. It watches the parent
// directory, since editors often replace the file instead of writing it.
type configWatcher struct {
	w    *fsnotify.Watcher
	file string
	log  *zap.Logger
}

// newConfigWatcher returns nil when the directory does not exist or cannot be
// watched; the dashboard then runs without live reload.
func newConfigWatcher(path string, log *zap.Logger) *configWatcher {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("config watcher unavailable", zap.Error(err))
		return nil
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		log.Warn("config watcher unavailable", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	return &configWatcher{w: w, file: filepath.Clean(path), log: log}
}

// Next returns a command that blocks until the config file changes, then
// waits for writes to settle and delivers configChangedMsg. Call it again
// after each message.
func (c *configWatcher) Next() tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		debounce := newDebounceTimer()
		defer debounce.Stop()

		for {
			select {
			case event, ok := <-c.w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != c.file || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
					continue
				}
				resetDebounceTimer(debounce)

			case <-debounce.C:
				return configChangedMsg{}

			case err, ok := <-c.w.Errors:
				if !ok {
					return nil
				}
				c.log.Warn("config watcher error", zap.Error(err))
				return nil
			}
		}
	}
}

// Close stops the watcher.
func (c *configWatcher) Close() error {
	if c == nil {
		return nil
	}
	return c.w.Close()
}

func newDebounceTimer() *time.Timer {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	return timer
}

func resetDebounceTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(configDebounce)
}
