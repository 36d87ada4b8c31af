// Package services holds the background helpers used by the status view.
package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chmouel/lazystatus/internal/config"
	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the debounce window for watcher events.
const WatchDebounce = 600 * time.Millisecond

// maxWatchedDirs bounds inotify usage on large worktrees.
const maxWatchedDirs = 1024

// WatchPathsResolver returns the worktree root followed by the git dir.
type WatchPathsResolver interface {
	WatchPaths(ctx context.Context) ([]string, error)
}

// WatchService turns filesystem activity in a repository into refresh signals.
type WatchService struct {
	Started     bool
	Waiting     bool
	Roots       []string
	GitDir      string
	Events      chan struct{}
	Done        chan struct{}
	Paths       map[string]struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	resolver    WatchPathsResolver
	logf        func(string, ...any)
}

// NewWatchService creates a new WatchService.
func NewWatchService(resolver WatchPathsResolver, logf func(string, ...any)) *WatchService {
	return &WatchService{
		resolver: resolver,
		logf:     logf,
	}
}

// Start initialises the watcher and starts the background goroutine.
// It reports false without error when auto refresh is off or the source has
// nothing on disk to watch.
func (w *WatchService) Start(ctx context.Context, cfg *config.AppConfig) (bool, error) {
	if w.Started || cfg == nil || !cfg.AutoRefresh || w.resolver == nil {
		return false, nil
	}
	paths, err := w.resolver.WatchPaths(ctx)
	if err != nil || len(paths) == 0 {
		w.debugf("auto refresh: unable to resolve watch paths: %v", err)
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.Watcher = watcher
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.Paths = make(map[string]struct{})
	w.Roots = paths
	if len(paths) > 1 {
		w.GitDir = paths[1]
	}

	w.addWatchTree(paths[0])
	if w.GitDir != "" {
		w.addWatchDir(w.GitDir)
		w.addWatchTree(filepath.Join(w.GitDir, "refs"))
	}
	w.debugf("auto refresh: watching %d directories", len(w.Paths))

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *WatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
}

// NextEvent returns the event channel if waiting is not already active.
func (w *WatchService) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *WatchService) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *WatchService) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < WatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// Signal notifies listeners of watcher activity.
func (w *WatchService) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

// IsUnderRoot reports whether the path is under any watch root.
func (w *WatchService) IsUnderRoot(path string) bool {
	if path == "" {
		return false
	}
	for _, root := range w.Roots {
		if root == "" {
			continue
		}
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Relevant filters out lock files and other churn git creates while it works.
func (w *WatchService) Relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, ".lock") {
		return false
	}
	if w.GitDir != "" && strings.HasPrefix(event.Name, w.GitDir+string(filepath.Separator)) {
		rel := strings.TrimPrefix(event.Name, w.GitDir+string(filepath.Separator))
		return rel == "index" || rel == "HEAD" || strings.HasPrefix(rel, "refs")
	}
	return true
}

func (w *WatchService) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.Watcher.Events:
			if !ok {
				return
			}
			if !w.Relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.Signal()
		case err, ok := <-w.Watcher.Errors:
			if !ok {
				return
			}
			w.debugf("watcher error: %v", err)
		}
	}
}

func (w *WatchService) maybeWatchNewDir(path string) {
	if !w.IsUnderRoot(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchDir(path)
}

func (w *WatchService) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if _, ok := w.Paths[path]; ok {
		return
	}
	if len(w.Paths) >= maxWatchedDirs {
		return
	}
	if err := w.Watcher.Add(path); err != nil {
		w.debugf("watcher add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

// addWatchTree watches root and its subdirectories, skipping .git and
// hidden directories.
func (w *WatchService) addWatchTree(root string) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		w.addWatchDir(path)
		return nil
	})
}

func (w *WatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
