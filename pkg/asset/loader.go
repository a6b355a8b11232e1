package asset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/leterax/splatwalk/pkg/collision"
)

// Loader reads the collision asset in the background and publishes it to a
// Cell. Walking is refused until the cell is filled, so a slow or failed
// load only keeps the camera in place.
type Loader struct {
	log    *zap.SugaredLogger
	load   func(path string) (*collision.Set, Info, error)
	report func(err error)

	mu      sync.Mutex
	info    Info
	err     error
	started bool
	done    chan struct{}
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{
		log:    log,
		load:   Load,
		report: captureError,
		done:   make(chan struct{}),
	}
}

func captureError(err error) {
	sentry.CaptureException(err)
}

// Start begins loading path into cell on a worker goroutine. It may only be
// called once per loader.
func (l *Loader) Start(ctx context.Context, path string, cell *collision.Cell) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("loader already started")
	}
	l.started = true
	l.mu.Unlock()

	go l.worker(ctx, path, cell)
	return nil
}

// worker runs one load. Failures and panics leave the cell empty.
func (l *Loader) worker(ctx context.Context, path string, cell *collision.Cell) {
	defer close(l.done)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("collision loader crashed: %v", r)
			l.finish(Info{Path: path}, err)
			l.log.Errorw("collision mesh load panicked", "path", path, "panic", r)

			hub := sentry.CurrentHub().Clone()
			hub.Recover(r)
			hub.Flush(time.Second * 5)
		}
	}()

	start := time.Now()
	set, info, err := l.load(path)
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = cell.Publish(set)
	}
	l.finish(info, err)

	if errors.Is(err, context.Canceled) {
		l.log.Debugw("collision mesh load cancelled", "path", path)
		return
	}
	if err != nil {
		l.log.Warnw("collision mesh unavailable, walking disabled", "path", path, "error", err)
		l.report(err)
		return
	}

	l.log.Infow("collision mesh loaded",
		"path", path,
		"format", info.Format,
		"walkables", info.Meshes,
		"triangles", info.Triangles,
		"fingerprint", fmt.Sprintf("%016x", info.Fingerprint),
		"took", time.Since(start),
	)
}

func (l *Loader) finish(info Info, err error) {
	l.mu.Lock()
	l.info = info
	l.err = err
	l.mu.Unlock()
}

// Done is closed once the load finished, successfully or not
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Result returns what the finished load produced. It is only meaningful
// after Done is closed.
func (l *Loader) Result() (Info, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.info, l.err
}

// Wait blocks until the load finished or ctx is done
func (l *Loader) Wait(ctx context.Context) (Info, error) {
	select {
	case <-l.done:
		return l.Result()
	case <-ctx.Done():
		return Info{}, ctx.Err()
	}
}
