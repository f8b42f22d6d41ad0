package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"salaryinsights/internal/errors"
)

// PromptWatcher reloads prompt files marked with watch: true when they change
type PromptWatcher struct {
	mu sync.Mutex

	config        *Config
	files         map[string]bool // absolute paths
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	timers        map[string]*time.Timer

	stopChan chan struct{}
	onReload func(path string)
	logger   *errors.Logger
	running  bool
}

// NewPromptWatcher creates a watcher for the watched prompt files of c.
// onReload may be nil.
func NewPromptWatcher(c *Config, debounceDelay time.Duration, onReload func(path string), logger *errors.Logger) *PromptWatcher {
	if debounceDelay == 0 {
		debounceDelay = 250 * time.Millisecond
	}

	files := make(map[string]bool)
	for _, f := range c.promptFiles() {
		if !f.Watch {
			continue
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			files[abs] = true
		}
	}

	return &PromptWatcher{
		config:        c,
		files:         files,
		debounceDelay: debounceDelay,
		timers:        make(map[string]*time.Timer),
		stopChan:      make(chan struct{}),
		onReload:      onReload,
		logger:        logger,
	}
}

// WatchedFiles returns the number of files the watcher follows
func (pw *PromptWatcher) WatchedFiles() int {
	return len(pw.files)
}

// Start begins watching. It is a no-op when no prompt file is marked for watching.
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}
	if len(pw.files) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Directories are watched so editors that replace the file by rename are caught.
	dirs := make(map[string]bool)
	for file := range pw.files {
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	pw.fsWatcher = watcher
	pw.running = true
	go pw.watchLoop()

	if pw.logger != nil {
		pw.logger.Info("Prompt file watcher started", "files", len(pw.files), "debounce_delay", pw.debounceDelay)
	}
	return nil
}

// Stop stops the watcher and pending reloads
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	close(pw.stopChan)
	for _, t := range pw.timers {
		t.Stop()
	}
	pw.running = false

	if err := pw.fsWatcher.Close(); err != nil {
		return fmt.Errorf("failed to close prompt watcher: %w", err)
	}
	return nil
}

func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if pw.shouldProcessEvent(event) {
				pw.scheduleReload(filepath.Clean(event.Name))
			}

		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			if pw.logger != nil {
				pw.logger.LogError(err, "Prompt watcher error")
			}

		case <-pw.stopChan:
			return
		}
	}
}

func (pw *PromptWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !pw.files[abs] {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (pw *PromptWatcher) scheduleReload(path string) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return
	}
	if t, ok := pw.timers[path]; ok {
		t.Stop()
	}
	pw.timers[path] = time.AfterFunc(pw.debounceDelay, func() {
		pw.reload(path)
	})
}

func (pw *PromptWatcher) reload(path string) {
	count, err := pw.config.reloadPromptFile(path)
	if err != nil {
		if pw.logger != nil {
			pw.logger.LogError(err, "Failed to reload prompt file, keeping previous content", "file", path)
		}
		return
	}
	if pw.logger != nil {
		pw.logger.Info("Prompt file reloaded", "file", path, "prompts", count)
	}
	if pw.onReload != nil {
		pw.onReload(path)
	}
}
