// Package hotreload reports changed files in a directory to a frame loop
// without blocking it.
package hotreload

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"hdrview/logger"
)

const queueSize = 64

// Watcher forwards writes to matching files through a buffered channel that
// Poll drains.
type Watcher struct {
	fs      *fsnotify.Watcher
	exts    map[string]bool
	changed chan string
	wg      sync.WaitGroup
}

// New watches dir for files with one of exts (".fs", ".vs"). No extension
// means every file matches.
func New(dir string, exts ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:      fw,
		exts:    make(map[string]bool, len(exts)),
		changed: make(chan string, queueSize),
	}
	for _, e := range exts {
		w.exts[strings.ToLower(e)] = true
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.matches(ev.Name) {
				continue
			}
			select {
			case w.changed <- ev.Name:
			default:
				// queue full; the pending entries already trigger a reload
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) matches(name string) bool {
	if len(w.exts) == 0 {
		return true
	}
	return w.exts[strings.ToLower(filepath.Ext(name))]
}

// Poll returns the distinct files changed since the last call, in the order
// first seen. It never blocks.
func (w *Watcher) Poll() []string {
	var out []string
	seen := map[string]bool{}
	for {
		select {
		case name := <-w.changed:
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		default:
			return out
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
