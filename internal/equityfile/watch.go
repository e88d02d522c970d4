package equityfile

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

// Watch monitors the equity CSV at path and calls onChange with the
// freshly loaded records each time the file is written. It runs until
// ctx is cancelled.
//
// If a reload fails (truncated write, bad header), the error is logged
// and the previous dataset stays active; onChange is not called.
func Watch(ctx context.Context, path string, onChange func([]model.DistrictRecord)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "equityfile: create watcher")
	}
	defer watcher.Close() //nolint:errcheck

	if err := watcher.Add(path); err != nil {
		return eris.Wrapf(err, "equityfile: watch %s", path)
	}

	log := zap.L().With(zap.String("path", path))
	log.Info("equityfile: watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors and atomic rewrites surface as Write or Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			records, err := Load(path)
			if err != nil {
				log.Error("equityfile: reload failed, keeping previous dataset", zap.Error(err))
				continue
			}

			log.Info("equityfile: reloaded", zap.Int("districts", len(records)))
			onChange(records)

			// Re-add in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("equityfile: watcher error", zap.Error(err))
		}
	}
}
