package patch

import (
	"bytes"

	"github.com/yaklabco/fixsweep/pkg/edit"
)

// applyWrite replaces the whole content with op.Text. On a file that does
// not exist yet the pipeline starts from empty content, so the same edit
// covers both create and overwrite. isNew marks that case: materializing
// an absent file counts as a change even when the new content is empty.
func applyWrite(content []byte, op Op, isNew bool) ([]edit.TextEdit, OpResult) {
	if bytes.Equal(content, []byte(op.Text)) {
		if isNew {
			return nil, applied(op, 1)
		}
		return nil, noop(op, "content already matches")
	}

	b := edit.NewBuilder()
	b.ReplaceRange(0, len(content), op.Text)
	return b.Edits, applied(op, 1)
}
