package provisioning

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Observer receives structured provisioning events.
type Observer interface {
	// Event emits a structured event.
	Event(event Event)

	// Progress reports progress for a phase.
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields.
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "foundation", "devices")
	Message   string            // Human-readable message
	Resource  string            // Resource name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
	Err       error             // Failure cause for failed events
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreated indicates a resource was created.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource already existed.
	EventResourceExists EventType = "resource.exists"
	// EventResourceRecovered indicates a create raced a concurrent writer and the
	// existing resource was re-read.
	EventResourceRecovered EventType = "resource.recovered"
	// EventResourceUpdated indicates a resource was patched.
	EventResourceUpdated EventType = "resource.updated"
	// EventResourceFailed indicates a resource could not be provisioned.
	EventResourceFailed EventType = "resource.failed"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on a logr.Logger. Failures are logged at
// error level, resource details at V(1).
type LogObserver struct {
	log    logr.Logger
	fields map[string]string
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log, fields: map[string]string{}}
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	kv := make([]any, 0, 2*(len(event.Fields)+len(o.fields))+6)
	kv = append(kv, "event", string(event.Type))
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = appendFields(kv, mergeFields(o.fields, event.Fields))

	switch event.Type {
	case EventPhaseFailed, EventResourceFailed:
		o.log.Error(event.Err, event.Message, kv...)
	case EventResourceExists, EventProgress:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// Progress implements Observer.
func (o *LogObserver) Progress(phase string, current, total int) {
	o.log.V(1).Info("progress", "phase", phase, "current", current, "total", total)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{log: o.log, fields: mergeFields(o.fields, fields)}
}

// RecordingObserver keeps every event in memory.
type RecordingObserver struct {
	rec    *recording
	fields map[string]string
}

type recording struct {
	mu     sync.Mutex
	events []Event
}

// NewRecordingObserver creates an empty recording observer.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{rec: &recording{}, fields: map[string]string{}}
}

// Event implements Observer.
func (o *RecordingObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Fields = mergeFields(o.fields, event.Fields)

	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()
	o.rec.events = append(o.rec.events, event)
}

// Progress implements Observer.
func (o *RecordingObserver) Progress(phase string, current, total int) {
	o.Event(Event{
		Type:    EventProgress,
		Phase:   phase,
		Message: "progress",
		Fields:  map[string]string{"current": fmt.Sprint(current), "total": fmt.Sprint(total)},
	})
}

// WithFields implements Observer. The returned observer records into the
// same event list.
func (o *RecordingObserver) WithFields(fields map[string]string) Observer {
	return &RecordingObserver{rec: o.rec, fields: mergeFields(o.fields, fields)}
}

// Events returns the recorded events, optionally restricted to the given types.
func (o *RecordingObserver) Events(types ...EventType) []Event {
	o.rec.mu.Lock()
	defer o.rec.mu.Unlock()

	var out []Event
	for _, e := range o.rec.events {
		if len(types) == 0 || containsType(types, e.Type) {
			out = append(out, e)
		}
	}
	return out
}

func containsType(types []EventType, t EventType) bool {
	for _, want := range types {
		if want == t {
			return true
		}
	}
	return false
}

func mergeFields(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func appendFields(kv []any, fields map[string]string) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "phase started",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: "phase completed",
		Fields:  map[string]string{"duration": duration.Round(time.Millisecond).String()},
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: "phase failed",
		Err:     err,
	})
}

// LogResource logs the outcome of ensuring a resource.
func LogResource(observer Observer, eventType EventType, phase, kind, name string, id int64) {
	observer.Event(Event{
		Type:     eventType,
		Phase:    phase,
		Resource: name,
		Message:  fmt.Sprintf("%s %s", kind, verb(eventType)),
		Fields: map[string]string{
			"kind": kind,
			"id":   fmt.Sprint(id),
		},
	})
}

// LogResourceFailed logs a resource that could not be provisioned.
func LogResourceFailed(observer Observer, phase, kind, name string, err error) {
	observer.Event(Event{
		Type:     EventResourceFailed,
		Phase:    phase,
		Resource: name,
		Message:  fmt.Sprintf("%s failed", kind),
		Fields:   map[string]string{"kind": kind},
		Err:      err,
	})
}

func verb(t EventType) string {
	switch t {
	case EventResourceCreated:
		return "created"
	case EventResourceExists:
		return "already exists"
	case EventResourceRecovered:
		return "recovered after duplicate"
	case EventResourceUpdated:
		return "updated"
	default:
		return string(t)
	}
}
