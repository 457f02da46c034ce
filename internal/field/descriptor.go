package field

// Origin tags where a committed value came from.
type Origin int

const (
	// OriginSystem marks values seeded from configuration. They never
	// trigger recomputation.
	OriginSystem Origin = iota
	// OriginUser marks values committed by the person editing the field.
	OriginUser
)

// String returns the wire name of the origin.
func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginSystem:
		return "system"
	default:
		return "unknown"
	}
}

// FromUI reports whether the value was produced by user input.
func (o Origin) FromUI() bool { return o == OriginUser }

// ParseOrigin maps a wire name back to an Origin. Unknown names fall back to
// OriginSystem so a stray value can never schedule a rerun.
func ParseOrigin(name string) Origin {
	if name == "user" {
		return OriginUser
	}
	return OriginSystem
}

// Descriptor identifies a field and carries its configured defaults. The
// controller only reads it.
type Descriptor struct {
	ID       string
	Label    string
	Default  string
	Disabled bool

	// Width is forwarded to the surface as a layout hint; zero lets the host decide.
	Width int
}

// CommitEvent is the message pushed to a Sink.
type CommitEvent struct {
	FieldID string
	Value   string
	Origin  Origin
}

// Sink receives committed values.
type Sink interface {
	Push(fieldID, value string, origin Origin)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(fieldID, value string, origin Origin)

// Push executes f.
func (f SinkFunc) Push(fieldID, value string, origin Origin) {
	if f == nil {
		return
	}
	f(fieldID, value, origin)
}

type nopSink struct{}

func (nopSink) Push(string, string, Origin) {}
