// FILE: trempy/initfile/watch.go
package initfile

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const DefaultMaxSubscribers = 100 // Prevent resource exhaustion

// Watch events carried by Update.Event.
const (
	EventReloaded           = "reloaded"
	EventReloadError        = "reload_error"
	EventReloadTimeout      = "reload_timeout"
	EventFileDeleted        = "file_deleted"
	EventPermissionsChanged = "permissions_changed"
)

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to avoid rapid reloads
	Debounce time.Duration

	// MaxSubscribers limits concurrent update channels
	MaxSubscribers int

	// ReloadTimeout bounds a single re-parse
	ReloadTimeout time.Duration

	// VerifyPermissions refuses to reload when group/world permissions change
	VerifyPermissions bool
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:      DefaultPollInterval,
		Debounce:          DefaultDebounce,
		MaxSubscribers:    DefaultMaxSubscribers,
		ReloadTimeout:     DefaultReloadTimeout,
		VerifyPermissions: true,
	}
}

// Update is delivered to subscribers after each watch event.
// Dict is set for EventReloaded, Err for EventReloadError.
type Update struct {
	Dict  *InitDict
	Err   error
	Event string
}

// Watcher polls an init file and re-parses it when it changes.
type Watcher struct {
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
	opts          WatchOptions
	readOpts      Options
	logger        *zap.Logger
	filePath      string
	lastModTime   time.Time
	lastSize      int64
	lastMode      os.FileMode
	current       atomic.Pointer[InitDict]
	active        atomic.Int64 // running goroutines, including pending debounce
	reloading     atomic.Bool
	subscribers   map[int64]chan Update
	subscriberID  atomic.Int64
	debounceTimer *time.Timer
}

// Watch reads path once and starts polling it for changes. The initial read
// must succeed.
func Watch(path string, readOpts Options, opts WatchOptions) (*Watcher, error) {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.MaxSubscribers <= 0 {
		opts.MaxSubscribers = DefaultMaxSubscribers
	}
	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = DefaultReloadTimeout
	}
	readOpts = readOpts.withDefaults()

	d, err := ReadFile(path, readOpts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		ctx:         ctx,
		cancel:      cancel,
		opts:        opts,
		readOpts:    readOpts,
		logger:      readOpts.Logger,
		filePath:    path,
		subscribers: make(map[int64]chan Update),
	}
	w.current.Store(d)

	if info, err := os.Stat(path); err == nil {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
		w.lastMode = info.Mode()
	}

	w.spawn(w.watchLoop)
	return w, nil
}

// Current returns the most recent successfully parsed content.
func (w *Watcher) Current() *InitDict {
	return w.current.Load()
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.filePath
}

// SubscriberCount returns the number of open update channels
func (w *Watcher) SubscriberCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.subscribers)
}

// Subscribe returns a channel receiving updates until Stop is called.
// A stopped or saturated watcher returns a closed channel.
func (w *Watcher) Subscribe() <-chan Update {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ctx.Err() != nil || len(w.subscribers) >= w.opts.MaxSubscribers {
		ch := make(chan Update)
		close(ch)
		return ch
	}

	// Buffered so a slow reader does not stall the watcher
	ch := make(chan Update, 10)
	id := w.subscriberID.Add(1)
	w.subscribers[id] = ch

	w.spawn(func() {
		<-w.ctx.Done()
		w.mu.Lock()
		delete(w.subscribers, id)
		close(ch)
		w.mu.Unlock()
	})

	return ch
}

// Stop terminates polling and closes every subscriber channel.
func (w *Watcher) Stop() {
	w.cancel()

	w.mu.Lock()
	if w.debounceTimer != nil {
		if w.debounceTimer.Stop() {
			w.active.Add(-1)
		}
		w.debounceTimer = nil
	}
	w.mu.Unlock()

	// Wait for goroutines to exit with timeout
	for i := 0; i < int(shutdownPollCycles) && w.active.Load() > 0; i++ {
		time.Sleep(SpinWaitInterval)
	}
}

func (w *Watcher) spawn(fn func()) {
	w.active.Add(1)
	go func() {
		defer w.active.Add(-1)
		fn()
	}()
}

// watchLoop is the main file watching loop
func (w *Watcher) watchLoop() {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.checkAndReload()
		}
	}
}

// checkAndReload checks if the file changed and schedules a debounced reload
func (w *Watcher) checkAndReload() {
	info, err := os.Stat(w.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			w.notify(Update{Event: EventFileDeleted})
		}
		return
	}

	if w.opts.VerifyPermissions && w.lastMode != 0 && info.Mode() != w.lastMode {
		if (info.Mode() & 0077) != (w.lastMode & 0077) {
			w.logger.Warn("init file permissions changed, not reloading",
				zap.String("file", w.filePath), zap.Stringer("mode", info.Mode()))
			w.notify(Update{Event: EventPermissionsChanged})
			return
		}
	}

	if info.ModTime().Equal(w.lastModTime) && info.Size() == w.lastSize {
		return
	}
	w.lastModTime = info.ModTime()
	w.lastSize = info.Size()
	w.lastMode = info.Mode()

	w.scheduleReload()
}

// scheduleReload (re)arms the debounce timer
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if w.debounceTimer != nil && w.debounceTimer.Stop() {
		w.active.Add(-1)
	}
	w.active.Add(1)
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, func() {
		defer w.active.Add(-1)
		w.performReload()
	})
}

// performReload re-parses the file and publishes the outcome
func (w *Watcher) performReload() {
	if !w.reloading.CompareAndSwap(false, true) {
		// Busy; retry after another debounce period
		w.scheduleReload()
		return
	}
	defer w.reloading.Store(false)

	if w.ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.opts.ReloadTimeout)
	defer cancel()

	type result struct {
		dict *InitDict
		err  error
	}
	done := make(chan result, 1)
	w.spawn(func() {
		d, err := ReadFile(w.filePath, w.readOpts)
		done <- result{d, err}
	})

	select {
	case res := <-done:
		if res.err != nil {
			w.logger.Warn("init file reload failed", zap.String("file", w.filePath), zap.Error(res.err))
			w.notify(Update{Err: res.err, Event: EventReloadError})
			return
		}
		w.current.Store(res.dict)
		w.logger.Info("init file reloaded", zap.String("file", w.filePath))
		w.notify(Update{Dict: res.dict, Event: EventReloaded})
	case <-ctx.Done():
		if w.ctx.Err() != nil {
			return
		}
		err := fmt.Errorf("reload of '%s' exceeded %s", w.filePath, w.opts.ReloadTimeout)
		w.notify(Update{Err: err, Event: EventReloadTimeout})
	}
}

// notify sends an update to all subscribers without blocking
func (w *Watcher) notify(u Update) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, ch := range w.subscribers {
		select {
		case ch <- u:
		default:
			// Channel full, drop
		}
	}
}
