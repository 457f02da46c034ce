package field

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingSink struct {
	events []CommitEvent
}

func (r *recordingSink) Push(fieldID, value string, origin Origin) {
	r.events = append(r.events, CommitEvent{FieldID: fieldID, Value: value, Origin: origin})
}

func TestNewSeedsSinkWithSystemPush(t *testing.T) {
	sink := &recordingSink{}
	c := New(Descriptor{ID: "f1", Label: "Notes", Default: "hello"}, sink)
	want := []CommitEvent{{FieldID: "f1", Value: "hello", Origin: OriginSystem}}
	if diff := cmp.Diff(want, sink.events); diff != "" {
		t.Fatalf("mount pushes mismatch (-want +got):\n%s", diff)
	}
	if c.Dirty() {
		t.Fatalf("expected clean draft after mount")
	}
	if c.Value() != "hello" {
		t.Fatalf("value = %q, want hello", c.Value())
	}
}

func TestEditsStayLocalUntilTrigger(t *testing.T) {
	sink := &recordingSink{}
	c := New(Descriptor{ID: "f1", Default: "hello"}, sink)
	for _, text := range []string{"hello ", "hello w", "hello world"} {
		c.OnEdit(text)
		if !c.Dirty() {
			t.Fatalf("expected dirty after edit %q", text)
		}
		if c.Value() != text {
			t.Fatalf("value = %q, want %q", c.Value(), text)
		}
	}
	if len(sink.events) != 1 {
		t.Fatalf("edits must not push, got %d pushes", len(sink.events))
	}
}

func TestCommitTriggerWhileCleanIsNoop(t *testing.T) {
	sink := &recordingSink{}
	c := New(Descriptor{ID: "f1", Default: "hello"}, sink)
	before := c.Draft()
	if c.OnCommitTrigger() {
		t.Fatalf("trigger on clean draft reported a commit")
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected only the seed push, got %d", len(sink.events))
	}
	if c.Draft() != before {
		t.Fatalf("draft changed on clean trigger: %+v", c.Draft())
	}
}

func TestFocusLossCommitsAsUser(t *testing.T) {
	sink := &recordingSink{}
	c := New(Descriptor{ID: "f1", Default: "hello"}, sink)
	c.OnEdit("hello world")
	if !c.OnCommitTrigger() {
		t.Fatalf("expected commit on dirty trigger")
	}
	want := []CommitEvent{
		{FieldID: "f1", Value: "hello", Origin: OriginSystem},
		{FieldID: "f1", Value: "hello world", Origin: OriginUser},
	}
	if diff := cmp.Diff(want, sink.events); diff != "" {
		t.Fatalf("pushes mismatch (-want +got):\n%s", diff)
	}
	if c.Dirty() {
		t.Fatalf("expected clean after commit")
	}
}

func TestAcceleratorThenFocusLossPushesOnce(t *testing.T) {
	sink := &recordingSink{}
	c := New(Descriptor{ID: "f1", Default: "hello"}, sink)
	c.OnEdit("hello world")
	c.OnCommitTrigger() // accelerator
	c.OnCommitTrigger() // focus loss, no new edit
	if got := len(sink.events); got != 2 {
		t.Fatalf("pushes = %d, want 2", got)
	}
	if last := sink.events[len(sink.events)-1]; last.Origin != OriginUser || last.Value != "hello world" {
		t.Fatalf("unexpected last push %+v", last)
	}
}

func TestCommitAlwaysPushes(t *testing.T) {
	sink := &recordingSink{}
	c := New(Descriptor{ID: "f1", Default: "x"}, sink)
	c.Commit(OriginUser)
	c.Commit(OriginUser)
	if got := len(sink.events); got != 3 {
		t.Fatalf("pushes = %d, want 3", got)
	}
}

func TestNilSinkDiscards(t *testing.T) {
	c := New(Descriptor{ID: "f1", Default: "x"}, nil)
	c.OnEdit("y")
	if !c.OnCommitTrigger() {
		t.Fatalf("expected commit with nil sink")
	}
}

func TestRender(t *testing.T) {
	desc := Descriptor{ID: "f1", Label: "Notes", Default: "hello", Disabled: true, Width: 40}
	tests := []struct {
		name  string
		draft Draft
		want  Surface
	}{
		{
			name:  "clean",
			draft: Draft{Value: "hello"},
			want:  Surface{Label: "Notes", Value: "hello", Disabled: true, Width: 40},
		},
		{
			name:  "dirty shows hint",
			draft: Draft{Value: "hello world", Dirty: true},
			want: Surface{
				Label: "Notes", Value: "hello world", Disabled: true, Width: 40,
				ShowApplyHint: true, Hint: ApplyHint,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Render(desc, tt.draft)); diff != "" {
				t.Fatalf("surface mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOriginNames(t *testing.T) {
	if OriginUser.String() != "user" || OriginSystem.String() != "system" {
		t.Fatalf("unexpected origin names %s/%s", OriginUser, OriginSystem)
	}
	if ParseOrigin("user") != OriginUser || ParseOrigin("bogus") != OriginSystem {
		t.Fatalf("ParseOrigin mismatch")
	}
	if OriginSystem.FromUI() || !OriginUser.FromUI() {
		t.Fatalf("FromUI mismatch")
	}
}
