package patch

import (
	"bytes"
	"strings"

	"github.com/yaklabco/fixsweep/pkg/edit"
)

// normalizeEOL rewrites the line endings of text to eol. Plan files carry
// LF text; a CRLF target file gets CRLF-terminated lines.
func normalizeEOL(text, eol string) string {
	unified := strings.ReplaceAll(text, "\r\n", "\n")
	if eol == "\n" {
		return unified
	}
	return strings.ReplaceAll(unified, "\n", eol)
}

// applyAppend appends op.Text at end of file unless op.Marker already
// occurs anywhere in the content. The appended block is separated from the
// existing content by one blank line and always ends with a newline.
func applyAppend(content []byte, op Op, eol string) ([]edit.TextEdit, OpResult) {
	if bytes.Contains(content, []byte(op.Marker)) {
		return nil, noop(op, "marker already present")
	}

	block := normalizeEOL(op.Text, eol)
	if !strings.HasSuffix(block, eol) {
		block += eol
	}

	var sep string
	switch {
	case len(content) == 0:
		sep = ""
	case bytes.HasSuffix(content, []byte("\n")):
		sep = eol
	default:
		sep = eol + eol
	}

	b := edit.NewBuilder()
	b.Insert(len(content), sep+block)
	return b.Edits, applied(op, 1)
}
