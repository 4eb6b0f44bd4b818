package ingestion

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the write bursts of a file being copied into a watched directory
const DefaultDebounce = 500 * time.Millisecond

// WatchConfig configures Watch
type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // if true, walk roots and emit existing files
	Debounce    time.Duration // quiet period before a changed file is emitted; 0 emits immediately
	Logger      *zap.Logger
}

// Watch emits the paths of supported datasheet files created or written under
// the configured roots. Both channels are closed when ctx is done.
// Directories created after start are watched as well. A file renamed into a
// root arrives as a Create under its new name.
func Watch(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no roots provided")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	var initial []string
	for _, root := range cfg.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && Supported(path) {
				initial = append(initial, path)
			}
			return nil
		})
		if err != nil {
			_ = w.Close()
			return nil, nil, err
		}
	}

	paths := make(chan string, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		defer close(paths)
		defer func() { _ = w.Close() }()

		send := func(path string) bool {
			select {
			case paths <- path:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for _, path := range initial {
			if !send(path) {
				return
			}
		}

		// pending and timer are owned by this goroutine
		pending := make(map[string]struct{})
		var timer *time.Timer
		var fire <-chan time.Time

		flush := func() bool {
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			clear(pending)
			for _, p := range batch {
				if !send(p) {
					return false
				}
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Has(fsnotify.Create) {
					if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
						if err := w.Add(e.Name); err != nil {
							logger.Warn("failed to watch new directory", zap.String("path", e.Name), zap.Error(err))
						}
						continue
					}
				}
				if !Supported(e.Name) || !(e.Has(fsnotify.Create) || e.Has(fsnotify.Write)) {
					continue
				}
				logger.Debug("datasheet changed", zap.String("path", e.Name), zap.String("op", e.Op.String()))
				pending[e.Name] = struct{}{}

				if cfg.Debounce <= 0 {
					if !flush() {
						return
					}
					continue
				}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(cfg.Debounce)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				if !flush() {
					return
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", zap.Error(err))
				select {
				case errs <- err:
				default:
				}
			}
		}
	}()

	return paths, errs, nil
}
