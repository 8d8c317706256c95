package patch

import (
	"bytes"
	"regexp"

	"github.com/yaklabco/fixsweep/pkg/edit"
)

// applyRegex emits one replacement edit per non-overlapping match of re,
// expanding $1 and ${name} references in op.Replace against the match.
// A template reference to a group the pattern lacks expands to the empty
// string, matching regexp.Expand semantics.
func applyRegex(content []byte, op Op, re *regexp.Regexp) ([]edit.TextEdit, OpResult) {
	matches := re.FindAllSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil, noop(op, "pattern not matched")
	}

	template := []byte(op.Replace)
	changed := false
	b := edit.NewBuilder()

	for _, m := range matches {
		replacement := re.Expand(nil, template, content, m)
		if !bytes.Equal(replacement, content[m[0]:m[1]]) {
			changed = true
		}
		b.ReplaceRange(m[0], m[1], string(replacement))
	}

	// Every match expanded to itself; writing them back would change
	// nothing.
	if !changed {
		return nil, noop(op, "output identical to input")
	}
	return b.Edits, applied(op, len(matches))
}
