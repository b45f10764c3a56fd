package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of writes to the same document.
var debounceDelay = 100 * time.Millisecond

// ResultFunc receives the outcome of a re-assessment. Exactly one of res and
// err is non-nil.
type ResultFunc func(res *Result, err error)

// Watch re-assesses documents whenever they change until ctx is done. Paths
// may name XML files or directories; for a directory every .xml file written
// inside it is assessed. Parent directories are watched so that editors
// which replace files on save are followed. Documents are assessed
// concurrently but onResult is never called concurrently.
func (e *Engine) Watch(ctx context.Context, paths []string, save bool, onResult ResultFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		dir := abs
		if info.IsDir() {
			dirs[abs] = true
		} else {
			files[abs] = true
			dir = filepath.Dir(abs)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
		wg     sync.WaitGroup
		cbMu   sync.Mutex // serializes onResult
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			if t.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
	}()

	tracked := func(name string) bool {
		return files[name] || (dirs[filepath.Dir(name)] && strings.EqualFold(filepath.Ext(name), ".xml"))
	}

	e.logger.Info("watching documents", "paths", len(paths))
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if !tracked(name) {
				continue
			}

			mu.Lock()
			if t, exists := timers[name]; exists && t.Stop() {
				wg.Done()
			}
			wg.Add(1)
			timers[name] = time.AfterFunc(debounceDelay, func() {
				defer wg.Done()
				e.logger.Debug("document changed, re-assessing", "file", name)
				res, err := e.AssessFile(ctx, name, save)
				cbMu.Lock()
				defer cbMu.Unlock()
				onResult(res, err)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watcher error", "error", err)
		}
	}
}
