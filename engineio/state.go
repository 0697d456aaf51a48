package engineio

// State is the connection state of a Client.
type State int32

const (
	StateClosed State = iota
	StateConnecting
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	}
	return "unknown state"
}

// CloseReason tags the Closed event with why the connection ended.
type CloseReason int

const (
	ReasonNormal CloseReason = iota
	ReasonTimeout
	ReasonLivenessViolation
	ReasonTransportError
	ReasonCancelled
)

func (r CloseReason) String() string {
	switch r {
	case ReasonNormal:
		return "normal"
	case ReasonTimeout:
		return "timeout"
	case ReasonLivenessViolation:
		return "liveness violation"
	case ReasonTransportError:
		return "transport error"
	case ReasonCancelled:
		return "cancelled"
	}
	return "unknown reason"
}

// CloseEvent is the argument of the Closed event. Err is nil for a normal
// close.
type CloseEvent struct {
	Reason CloseReason
	Err    error
}

const (
	EventOpened            = "Opened"
	EventClosed            = "Closed"
	EventMessageReceived   = "MessageReceived"
	EventExceptionOccurred = "ExceptionOccurred"
)

// Message is the argument of the MessageReceived event.
type Message struct {
	Data     []byte
	IsBinary bool
}

func (m Message) String() string { return string(m.Data) }

func newMessage(data interface{}) Message {
	switch v := data.(type) {
	case string:
		return Message{Data: []byte(v)}
	case []byte:
		return Message{Data: v, IsBinary: true}
	}
	return Message{}
}
