package field

// Draft is the controller's private copy of the field text.
type Draft struct {
	Value string
	// Dirty is true while Value differs from the last pushed value.
	Dirty bool
}

// Controller owns one Draft and decides when it reaches the Sink. It is not
// safe for concurrent use; the hosting event loop serializes calls.
type Controller struct {
	desc  Descriptor
	sink  Sink
	draft Draft
}

// New mounts a controller for desc and seeds the sink with the default value
// tagged as OriginSystem. A nil sink discards pushes.
func New(desc Descriptor, sink Sink) *Controller {
	if sink == nil {
		sink = nopSink{}
	}
	c := &Controller{
		desc:  desc,
		sink:  sink,
		draft: Draft{Value: desc.Default},
	}
	c.Commit(OriginSystem)
	return c
}

// OnEdit replaces the draft value and marks it dirty. The sink is not touched.
func (c *Controller) OnEdit(text string) {
	c.draft.Value = text
	c.draft.Dirty = true
}

// OnCommitTrigger handles focus loss and the apply accelerator. It pushes
// the draft as a user commit only when dirty and reports whether it did.
func (c *Controller) OnCommitTrigger() bool {
	if !c.draft.Dirty {
		return false
	}
	c.Commit(OriginUser)
	return true
}

// Commit pushes the current value unconditionally and clears the dirty flag.
func (c *Controller) Commit(origin Origin) CommitEvent {
	ev := CommitEvent{FieldID: c.desc.ID, Value: c.draft.Value, Origin: origin}
	c.sink.Push(ev.FieldID, ev.Value, ev.Origin)
	c.draft.Dirty = false
	return ev
}

// Render projects the current draft onto a Surface.
func (c *Controller) Render() Surface {
	return Render(c.desc, c.draft)
}

func (c *Controller) Descriptor() Descriptor { return c.desc }
func (c *Controller) Draft() Draft           { return c.draft }
func (c *Controller) Value() string          { return c.draft.Value }
func (c *Controller) Dirty() bool            { return c.draft.Dirty }
