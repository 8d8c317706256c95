package patch

import (
	"bytes"
	"fmt"

	"github.com/yaklabco/fixsweep/pkg/edit"
)

// lineStartOffsets returns the byte offset where each 1-based line begins.
// Lines are '\n'-separated segments, so content with a trailing newline has
// a final empty line and empty content has exactly one empty line.
func lineStartOffsets(content []byte) []int {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineAt returns line number n (1-based) without its terminator. A CRLF
// file's lines keep their trailing '\r'.
func lineAt(content []byte, offsets []int, n int) []byte {
	start := offsets[n-1]
	end := len(content)
	if n < len(offsets) {
		end = offsets[n] - 1
	}
	return content[start:end]
}

// leadingWhitespace returns the run of spaces and tabs that opens line.
func leadingWhitespace(line []byte) []byte {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// applyInserts performs one insertion pass for a file: every op's line
// number refers to the same original content, so the pass is equivalent to
// inserting bottom-up in descending line order. Duplicate line numbers
// collapse to the first op that names them; an op whose text already
// appears on the target line or the line above is skipped, which is what
// makes re-running a pass safe.
func applyInserts(content []byte, ops []Op, eol string) ([]edit.TextEdit, []OpResult) {
	offsets := lineStartOffsets(content)
	lineCount := len(offsets)

	results := make([]OpResult, len(ops))
	claimed := make(map[int]bool, len(ops))
	b := edit.NewBuilder()

	for i, op := range ops {
		if op.Line < 1 || op.Line > lineCount {
			results[i] = skipped(op, fmt.Sprintf("line %d out of range (file has %d lines)", op.Line, lineCount))
			continue
		}
		if claimed[op.Line] {
			results[i] = skipped(op, fmt.Sprintf("duplicate insertion at line %d", op.Line))
			continue
		}
		claimed[op.Line] = true

		if guardHit(content, offsets, op.Line, op.Text) {
			results[i] = skipped(op, "text already present at insertion point")
			continue
		}

		text := op.Text
		if op.matchIndent() {
			text = string(leadingWhitespace(lineAt(content, offsets, op.Line))) + text
		}

		b.Insert(offsets[op.Line-1], text+eol)
		results[i] = applied(op, 1)
	}

	return b.Edits, results
}

// guardHit reports whether text already occurs on the target line or the
// line immediately above it. Containment rather than equality, so an
// indented copy of the text still trips the guard.
func guardHit(content []byte, offsets []int, line int, text string) bool {
	needle := []byte(text)
	if line > 1 && bytes.Contains(lineAt(content, offsets, line-1), needle) {
		return true
	}
	return bytes.Contains(lineAt(content, offsets, line), needle)
}
