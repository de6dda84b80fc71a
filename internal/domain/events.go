package domain

// EventKind names one of the lifecycle events the installer/remover emits
// at well-defined points (§6, §5 "Ordering guarantees").
type EventKind string

const (
	EventInstallationStarted   EventKind = "InstallationStarted"
	EventInstallationCompleted EventKind = "InstallationCompleted"
	EventInstallationFailed    EventKind = "InstallationFailed"
	EventRemoveStarted         EventKind = "RemoveStarted"
	EventRemoveCompleted       EventKind = "RemoveCompleted"
	EventUpdateStarted         EventKind = "UpdateStarted"
	EventUpdateCompleted       EventKind = "UpdateCompleted"
	EventDownloadStarted       EventKind = "DownloadStarted"
	EventDownloadProgress      EventKind = "DownloadProgress"
	EventDownloadCompleted     EventKind = "DownloadCompleted"
	EventDependencyResolved    EventKind = "DependencyResolved"
)

// Event is the single emitted type carrying a discriminated payload. The
// core only produces these; delivery to subscribers is an external
// collaborator's concern (§1 "Out of scope").
type Event struct {
	Kind EventKind

	Reference      PackageReference
	Package        *Package
	Err            error
	DependencyName string

	// Download progress fields. TotalKnown distinguishes an unknown total
	// (§4.2: "total may be absent if unknown") from a known zero-byte body.
	Downloaded int64
	Total      int64
	TotalKnown bool
}

// Sink receives events emitted during install/remove/switch. Implementations
// fan events out to logs, metrics, and any external subscription bus;
// the core never blocks waiting for a subscriber.
type Sink interface {
	Emit(Event)
}

// NoopSink discards every event. Used by callers that don't need progress
// reporting, and as the zero-value default so callers never nil-check.
type NoopSink struct{}

func (NoopSink) Emit(Event) {}

// FuncSink adapts a plain function to the Sink interface.
type FuncSink func(Event)

func (f FuncSink) Emit(e Event) { f(e) }

// CollectingSink accumulates every emitted event in order, for tests that
// assert on the event sequence (§5 ordering guarantees, §8 S1).
type CollectingSink struct {
	Events []Event
}

func (s *CollectingSink) Emit(e Event) {
	s.Events = append(s.Events, e)
}

// Kinds returns the emitted event kinds in order, for compact assertions.
func (s *CollectingSink) Kinds() []EventKind {
	kinds := make([]EventKind, len(s.Events))
	for i, e := range s.Events {
		kinds[i] = e.Kind
	}
	return kinds
}
