package ipfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/0xAtelerix/talentgraph/library"
	"github.com/0xAtelerix/talentgraph/metrics"
)

const DefaultDirSettle = 500 * time.Millisecond

// DirFetcher serves documents from a local directory where each file is named
// by its CID, as produced by `ipfs get` or a pinning sidecar. A missing file is
// waited for up to wait. A file is read only once it has been quiet (no write
// events, unchanged size) for settle, so a writer pausing for less than settle
// is never read half way.
type DirFetcher struct {
	dir    string
	wait   time.Duration
	settle time.Duration
	logger *zerolog.Logger
}

func NewDirFetcher(dir string, wait, settle time.Duration, logger *zerolog.Logger) *DirFetcher {
	if settle <= 0 {
		settle = DefaultDirSettle
	}

	return &DirFetcher{dir: dir, wait: wait, settle: settle, logger: logger}
}

func (d *DirFetcher) Fetch(ctx context.Context, cid string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.DocumentFetchDuration.WithLabelValues("dir").Observe(time.Since(start).Seconds())
	}()

	path := filepath.Join(d.dir, filepath.Base(cid))

	info, err := os.Stat(path)

	switch {
	case err == nil && (d.wait <= 0 || time.Since(info.ModTime()) >= d.settle):
		return d.read(cid, path)
	case err != nil && (!errors.Is(err, fs.ErrNotExist) || d.wait <= 0):
		return nil, fmt.Errorf("%w: %s: %w", library.ErrFetchFailed, cid, err)
	}

	// missing, or touched too recently to trust
	if err = d.waitFile(ctx, path); err != nil {
		return nil, err
	}

	return d.read(cid, path)
}

func (d *DirFetcher) read(cid, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", library.ErrFetchFailed, cid, err)
	}

	return data, nil
}

// size is -1 for a missing file.
func size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}

	return info.Size()
}

// waitFile returns once path exists, is non-empty and has been quiet for settle.
func (d *DirFetcher) waitFile(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err = watcher.Add(d.dir); err != nil {
		return fmt.Errorf("watch %s: %w", d.dir, err)
	}

	d.logger.Debug().Str("file", path).Msg("waiting file")

	deadline := time.NewTimer(d.wait)
	defer deadline.Stop()

	quiet := time.NewTimer(d.settle)
	defer quiet.Stop()

	// the file may already exist, or land between the first stat and Add
	lastSize := size(path)
	if lastSize < 0 {
		quiet.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-deadline.C:
			return fmt.Errorf("%w: %s not complete after %s", library.ErrFetchFailed, path, d.wait)

		case <-quiet.C:
			current := size(path)
			if current > 0 && current == lastSize {
				return nil
			}

			lastSize = current
			if current >= 0 {
				quiet.Reset(d.settle)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("%w: watcher closed", library.ErrFetchFailed)
			}

			if filepath.Clean(event.Name) != path {
				continue
			}

			// any create, write or rename restarts the quiet period
			lastSize = size(path)
			if lastSize >= 0 {
				quiet.Reset(d.settle)
			} else {
				quiet.Stop()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("%w: watcher closed", library.ErrFetchFailed)
			}

			d.logger.Warn().Err(err).Str("file", path).Msg("watcher error")
		}
	}
}
