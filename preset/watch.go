package preset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/cwbudde/algo-deepnote/deepnote"
)

// WatchControls reloads the controls file at path whenever it changes and
// sends the result on out; load errors go to errs. The directory is watched
// rather than the file so editors that replace the file on save keep
// delivering updates. Watching stops when ctx is done.
func WatchControls(ctx context.Context, path string, out chan<- deepnote.Controls, errs chan<- error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("can't create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				c, err := LoadControls(abs)
				if err != nil {
					// Rename events can land before the new file exists.
					send(ctx, errs, err)
					continue
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				send(ctx, errs, err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func send(ctx context.Context, errs chan<- error, err error) {
	if errs == nil {
		return
	}
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}
