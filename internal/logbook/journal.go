package logbook

import (
	"fmt"

	"github.com/kingrea/draftfield/internal/field"
)

// Journal records every commit in a Logbook before forwarding it.
type Journal struct {
	book *Logbook
	next field.Sink
}

var _ field.Sink = (*Journal)(nil)

// NewJournal wraps next. A nil book records nothing.
func NewJournal(book *Logbook, next field.Sink) *Journal {
	return &Journal{book: book, next: next}
}

// Push logs the commit and forwards it unchanged.
func (j *Journal) Push(fieldID, value string, origin field.Origin) {
	j.book.Record(Entry{
		Level:   LevelInfo,
		Field:   fieldID,
		Origin:  origin.String(),
		Message: fmt.Sprintf("commit len=%d", len(value)),
	})
	if j.next != nil {
		j.next.Push(fieldID, value, origin)
	}
}
