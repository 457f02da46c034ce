package field

import "strings"

// ApplyHint is shown under a field with an uncommitted edit.
const ApplyHint = "Press Ctrl+Enter to apply"

// HintFor builds the apply hint for a key label such as "ctrl+s".
func HintFor(keyLabel string) string {
	if keyLabel == "" {
		return ApplyHint
	}
	parts := strings.Split(keyLabel, "+")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return "Press " + strings.Join(parts, "+") + " to apply"
}

// Surface describes what the host should draw for a field.
type Surface struct {
	Label         string
	Value         string
	Disabled      bool
	ShowApplyHint bool
	Hint          string
	Width         int
}

// Render is a pure projection of a descriptor and draft.
func Render(desc Descriptor, draft Draft) Surface {
	s := Surface{
		Label:    desc.Label,
		Value:    draft.Value,
		Disabled: desc.Disabled,
		Width:    desc.Width,
	}
	if draft.Dirty {
		s.ShowApplyHint = true
		s.Hint = ApplyHint
	}
	return s
}
