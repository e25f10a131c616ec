package cheader

import (
	"fmt"
	"strings"
)

// LayoutIssue describes one problem found by Check.
type LayoutIssue struct {
	Member  string // member name, empty for header-level issues
	Offset  int    // byte offset of the member
	Message string
}

func (i LayoutIssue) String() string {
	if i.Member == "" {
		return i.Message
	}
	return fmt.Sprintf("%s @0x%X: %s", i.Member, i.Offset, i.Message)
}

// MemberRange is the byte range a struct member occupies.
type MemberRange struct {
	Name  string
	Start int
	End   int // exclusive
}

// Ranges returns the byte ranges of all members with a known size, laid out
// without padding. Members of unknown type end the walk.
func (h *HeaderFile) Ranges() ([]MemberRange, error) {
	ranges := make([]MemberRange, 0, len(h.Struct.Members))
	offset := 0
	for _, m := range h.Struct.Members {
		size, ok := m.ElementSize()
		if !ok {
			return ranges, fmt.Errorf("cheader: member %s has unsupported type %s", m.Name, m.Type)
		}
		end := offset + size*m.Elements()
		ranges = append(ranges, MemberRange{Name: m.Name, Start: offset, End: end})
		offset = end
	}
	return ranges, nil
}

// Check verifies that a parsed header has the shape the generator emits:
// matching include guard, word sized members only, reserved fillers named
// after the offset they start at and no empty fillers.
func Check(h *HeaderFile) []LayoutIssue {
	var issues []LayoutIssue
	if h.Guard != h.Define {
		issues = append(issues, LayoutIssue{
			Message: fmt.Sprintf("include guard %s does not match define %s", h.Guard, h.Define),
		})
	}
	if name := strings.TrimSuffix(h.Struct.Name, "_regs"); name != "" && name != h.Struct.Name {
		if want := GuardMacro(name); want != h.Guard {
			issues = append(issues, LayoutIssue{
				Message: fmt.Sprintf("include guard %s, expected %s", h.Guard, want),
			})
		}
	}

	ranges, err := h.Ranges()
	if err != nil {
		issues = append(issues, LayoutIssue{Message: err.Error()})
	}
	seen := make(map[string]bool, len(ranges))
	for i, r := range ranges {
		m := h.Struct.Members[i]
		if seen[r.Name] {
			issues = append(issues, LayoutIssue{Member: r.Name, Offset: r.Start, Message: "duplicate member"})
		}
		seen[r.Name] = true

		if size, _ := m.ElementSize(); size != 4 {
			issues = append(issues, LayoutIssue{
				Member:  r.Name,
				Offset:  r.Start,
				Message: fmt.Sprintf("member is %d bytes wide, registers must be 32-bit", size),
			})
		}
		if !strings.HasPrefix(r.Name, "_rsvd") {
			continue
		}
		if m.Elements() == 0 {
			issues = append(issues, LayoutIssue{Member: r.Name, Offset: r.Start, Message: "empty reserved filler"})
		}
		if want := ReservedName(uint32(r.Start)); r.Name != want {
			issues = append(issues, LayoutIssue{
				Member:  r.Name,
				Offset:  r.Start,
				Message: fmt.Sprintf("reserved filler should be named %s", want),
			})
		}
	}
	return issues
}
