package patch

import (
	"bytes"

	"github.com/yaklabco/fixsweep/pkg/edit"
)

// applyLiteral finds occurrences of op.Find and emits one replacement edit
// per occurrence, left to right and non-overlapping. FirstOnly stops after
// the first match.
func applyLiteral(content []byte, op Op) ([]edit.TextEdit, OpResult) {
	if op.Replace == op.Find {
		return nil, noop(op, "replacement equals search text")
	}

	find := []byte(op.Find)
	b := edit.NewBuilder()

	offset := 0
	for {
		i := bytes.Index(content[offset:], find)
		if i < 0 {
			break
		}
		start := offset + i
		b.ReplaceRange(start, start+len(find), op.Replace)
		offset = start + len(find)
		if op.FirstOnly {
			break
		}
	}

	if len(b.Edits) == 0 {
		return nil, noop(op, "search text not found")
	}
	return b.Edits, applied(op, len(b.Edits))
}
