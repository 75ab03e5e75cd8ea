package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher keeps a Config in sync with its file. The capture loop reads
// Current once per frame, so edits to the file retune the next frame.
type Watcher struct {
	path string
	fw   *fsnotify.Watcher
	log  logrus.FieldLogger

	mu       sync.RWMutex
	current  *Config
	onChange func(*Config)

	done chan struct{}
	wg   sync.WaitGroup
}

// Watch starts watching the file c was loaded from. The file's directory
// must exist; the file itself may appear later.
func Watch(c *Config, log logrus.FieldLogger) (*Watcher, error) {
	if c.path == "" {
		c.path = DefaultPath()
	}
	path, err := filepath.Abs(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	if log == nil {
		log = logrus.StandardLogger()
	}
	w := &Watcher{
		path:    path,
		fw:      fw,
		log:     log.WithField("config", path),
		current: c,
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Current returns the most recently loaded configuration.
// The returned value must not be modified.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange sets a callback run after each successful reload.
// It is called from the watcher goroutine.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := w.reload(); err != nil {
				w.log.WithError(err).Warn("config reload failed, keeping previous")
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("config watcher error")
		}
	}
}

// reload reads the file again. On error the previous configuration stays.
func (w *Watcher) reload() error {
	c, err := Load(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.current = c
	fn := w.onChange
	w.mu.Unlock()

	w.log.WithFields(logrus.Fields{
		"decoder": c.Decoder,
		"timing":  c.Scanner.TimingThreshold,
	}).Info("config reloaded")
	if fn != nil {
		fn(c)
	}
	return nil
}
