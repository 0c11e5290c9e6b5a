package types

// CheckEventType defines the type of event emitted while a check runs.
type CheckEventType string

const (
	EventTypeCheckStarted   CheckEventType = "check_started"   // EventTypeCheckStarted indicates a trigger fired.
	EventTypeTextExtracted  CheckEventType = "text_extracted"  // EventTypeTextExtracted indicates the page agent returned text.
	EventTypeSessionOpened  CheckEventType = "session_opened"  // EventTypeSessionOpened indicates a host session was established.
	EventTypeSessionClosed  CheckEventType = "session_closed"  // EventTypeSessionClosed indicates a host session was released.
	EventTypeResultShown    CheckEventType = "result_shown"    // EventTypeResultShown indicates the display surface was updated.
	EventTypeCheckFailed    CheckEventType = "check_failed"    // EventTypeCheckFailed indicates the check ended in a failure notice.
	EventTypeCheckAbandoned CheckEventType = "check_abandoned" // EventTypeCheckAbandoned indicates the owning surface went away mid-flight.
)

// CheckEvent is emitted by a trigger controller during one invocation.
type CheckEvent struct {
	// Type indicates the kind of event.
	Type CheckEventType

	// RequestID correlates every event of one invocation.
	RequestID string

	// TabID is the page context the check targets.
	TabID TabID

	// Mode is the requested check mode.
	Mode Mode

	// Title and Body carry the displayed message for EventTypeResultShown
	// and EventTypeCheckFailed.
	Title string
	Body  string

	// Kind classifies the failure for EventTypeCheckFailed.
	Kind ErrorKind

	// Error is the underlying cause, if any.
	Error error

	// TextLength is the extracted text length for EventTypeTextExtracted.
	TextLength int
}

// EventEmitter receives check events. Implementations must not block.
type EventEmitter func(event *CheckEvent)

// NopEmitter drops every event.
func NopEmitter(*CheckEvent) {}

// NewCheckStartedEvent creates a check started event.
func NewCheckStartedEvent(requestID string, tab TabID, mode Mode) *CheckEvent {
	return &CheckEvent{Type: EventTypeCheckStarted, RequestID: requestID, TabID: tab, Mode: mode}
}

// NewTextExtractedEvent creates a text extracted event.
func NewTextExtractedEvent(requestID string, tab TabID, mode Mode, length int) *CheckEvent {
	return &CheckEvent{Type: EventTypeTextExtracted, RequestID: requestID, TabID: tab, Mode: mode, TextLength: length}
}

// NewSessionOpenedEvent creates a session opened event.
func NewSessionOpenedEvent(requestID string, tab TabID, mode Mode) *CheckEvent {
	return &CheckEvent{Type: EventTypeSessionOpened, RequestID: requestID, TabID: tab, Mode: mode}
}

// NewSessionClosedEvent creates a session closed event.
func NewSessionClosedEvent(requestID string, tab TabID, mode Mode) *CheckEvent {
	return &CheckEvent{Type: EventTypeSessionClosed, RequestID: requestID, TabID: tab, Mode: mode}
}

// NewResultShownEvent creates a result shown event.
func NewResultShownEvent(requestID string, tab TabID, mode Mode, title, body string) *CheckEvent {
	return &CheckEvent{Type: EventTypeResultShown, RequestID: requestID, TabID: tab, Mode: mode, Title: title, Body: body}
}

// NewCheckFailedEvent creates a check failed event.
func NewCheckFailedEvent(requestID string, tab TabID, mode Mode, kind ErrorKind, err error) *CheckEvent {
	return &CheckEvent{Type: EventTypeCheckFailed, RequestID: requestID, TabID: tab, Mode: mode, Kind: kind, Error: err}
}

// NewCheckAbandonedEvent creates a check abandoned event.
func NewCheckAbandonedEvent(requestID string, tab TabID, mode Mode, err error) *CheckEvent {
	return &CheckEvent{Type: EventTypeCheckAbandoned, RequestID: requestID, TabID: tab, Mode: mode, Error: err}
}
