package gen

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is the quiet period after a change before regenerating. Editors
// often emit several events for a single save.
const debounce = 100 * time.Millisecond

// Watch generates the DDL of the schema file at path, and again each time
// the file changes, until ctx is done. The outcome of every run is passed
// to report. The parent directory is watched rather than the file, so that
// editors replacing the file on save are followed.
func (g *Generator) Watch(ctx context.Context, path string, report func([]*Output, error)) error {
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("gen: watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("gen: watch %s: %w", filepath.Dir(path), err)
	}
	report(g.Generate(ctx, path))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			g.cfg.Logger.Debug("schema changed", "file", path, "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("gen: watch: %w", err)
		case <-timer.C:
			report(g.Generate(ctx, path))
		}
	}
}
