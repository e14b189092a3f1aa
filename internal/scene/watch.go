package scene

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported. Editors
// often save with several writes in a row.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to a set of scene files. Paths are sent on Events
// once the file has been quiet for the debounce period.
type Watcher struct {
	Events chan string
	Errors chan error

	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches the given files. Their directories are watched so that
// files replaced by rename are still seen.
func NewWatcher(debounce time.Duration, paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		watcher:  fw,
		files:    files,
		debounce: debounce,
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Events and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Events)

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			pending[name] = true
			timer.Reset(w.debounce)
		case <-timer.C:
			for name := range pending {
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			clear(pending)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
