package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/esimov/doodle/utils"
	"github.com/fsnotify/fsnotify"
)

// debounce groups the bursts of events editors emit on a single save.
const debounce = 150 * time.Millisecond

// watch renders the sources once, then again every time a sketch is written,
// until the process is interrupted. Rendering failures are reported and watching goes on.
func (op *ops) watch() error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	return op.watchUntil(sig, nil)
}

// watchUntil runs the watch loop until a value arrives on stop. The ready
// callback, if any, runs once the watcher is in place.
func (op *ops) watchUntil(stop <-chan os.Signal, ready func()) error {
	if op.src == pipeName || op.dst == pipeName {
		return errors.New("the watch mode requires a source and a destination path")
	}
	info, err := os.Stat(op.src)
	if err != nil {
		return fmt.Errorf("failed to load the source sketch: %w", err)
	}
	if err := op.execute(); err != nil {
		fmt.Fprintln(os.Stderr, utils.StatusLine("the first render failed, watching for changes anyway", "✘", utils.ErrorMessage))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to start the file watcher: %w", err)
	}
	defer w.Close()

	dir := info.IsDir()
	if dir {
		err = addDirs(w, op.src)
	} else {
		// Editors often replace the file on save, so the parent directory is watched.
		err = w.Add(filepath.Dir(op.src))
	}
	if err != nil {
		return fmt.Errorf("unable to watch %s: %w", op.src, err)
	}
	fmt.Fprintln(os.Stderr, utils.StatusLine("watching "+op.src+" for changes...", "", utils.DefaultMessage))
	if ready != nil {
		ready()
	}

	var (
		pending = make(map[string]struct{})
		tick    <-chan time.Time
	)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if dir && ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := addDirs(w, ev.Name); err != nil {
						op.printStatus(ev.Name, err)
					}
					continue
				}
			}
			if !op.isWatched(ev, dir) {
				continue
			}
			pending[ev.Name] = struct{}{}
			tick = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			op.printStatus(op.src, err)
		case <-tick:
			for path := range pending {
				dst := op.dst
				if dir {
					dst = op.destination(path)
				}
				op.printStatus(dst, op.render(path, dst))
			}
			clear(pending)
			tick = nil
		case <-stop:
			return nil
		}
	}
}

// isWatched reports whether the event concerns one of the rendered sketches.
func (op *ops) isWatched(ev fsnotify.Event, dir bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if !dir {
		return filepath.Clean(ev.Name) == filepath.Clean(op.src)
	}
	return utils.Contains(sketchExtensions, strings.ToLower(filepath.Ext(ev.Name)))
}

// addDirs watches root and every directory below it.
func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
