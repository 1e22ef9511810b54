// FILE: trempy/initfile/events.go
package initfile

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// EventCode identifies a numeric warning raised while evaluating a model.
type EventCode int

const (
	EventBoundsAdjusted   EventCode = 0
	EventIntervalOverflow EventCode = 1
	EventBracketSigns     EventCode = 2
	EventUtilityInvalid   EventCode = 3
)

var eventMessages = map[EventCode]string{
	EventBoundsAdjusted:   "small adjustment to bounds when mapping to the real line",
	EventIntervalOverflow: "overflow while mapping to the bounded interval",
	EventBracketSigns:     "root bracket endpoints must have different signs",
	EventUtilityInvalid:   "invalid floating-point value encountered in utility",
}

// EventRecorder collects event codes between flushes. Safe for concurrent use.
type EventRecorder struct {
	mu     sync.Mutex
	events []EventCode
	logger *zap.Logger
}

// NewEventRecorder creates a recorder. A nil logger disables debug output.
func NewEventRecorder(logger *zap.Logger) *EventRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRecorder{logger: logger}
}

// Record appends an event code.
func (r *EventRecorder) Record(code EventCode) {
	r.mu.Lock()
	r.events = append(r.events, code)
	r.mu.Unlock()
	r.logger.Debug("numeric event recorded", zap.Int("code", int(code)))
}

// Events returns the codes recorded since the last flush.
func (r *EventRecorder) Events() []EventCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EventCode(nil), r.events...)
}

// Flush writes one warning per distinct code, in ascending code order, and
// resets the recorder.
func (r *EventRecorder) Flush(w io.Writer) error {
	r.mu.Lock()
	events := r.events
	r.events = nil
	r.mu.Unlock()

	seen := make(map[EventCode]bool)
	var codes []EventCode
	for _, code := range events {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	for _, code := range codes {
		msg, ok := eventMessages[code]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownEvent, code)
		}
		if _, err := fmt.Fprintf(w, "\n Warning: %s\n", msg); err != nil {
			return fmt.Errorf("failed to write event log: %w", err)
		}
	}
	return nil
}
