// Package patch defines declarative patch operations, compiles them into
// per-file plans and applies them through a safe read-compare-write pipeline.
package patch

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a patch operation type.
type Kind string

// Supported operation kinds.
const (
	// KindLiteral replaces occurrences of a literal substring.
	KindLiteral Kind = "literal"

	// KindRegex replaces non-overlapping regexp matches, expanding $1 and
	// ${name} references in the replacement template.
	KindRegex Kind = "regex"

	// KindInsert inserts a line of text before a 1-based line number.
	KindInsert Kind = "insert"

	// KindAppend appends a block at end of file unless a marker is
	// already present anywhere in it.
	KindAppend Kind = "append"

	// KindWrite creates or overwrites a whole file.
	KindWrite Kind = "write"

	// KindRename renames a file.
	KindRename Kind = "rename"
)

// kindAliases maps accepted spellings to canonical kinds.
var kindAliases = map[string]Kind{
	"literal":     KindLiteral,
	"substring":   KindLiteral,
	"replace":     KindLiteral,
	"regex":       KindRegex,
	"pattern":     KindRegex,
	"insert":      KindInsert,
	"line-insert": KindInsert,
	"append":      KindAppend,
	"write":       KindWrite,
	"create":      KindWrite,
	"rename":      KindRename,
	"move":        KindRename,
}

// ErrUnknownKind indicates an operation kind no alias resolves to.
var ErrUnknownKind = errors.New("unknown operation kind")

// ParseKind resolves a kind name or alias to its canonical Kind.
func ParseKind(name string) (Kind, error) {
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return kind, nil
}

// KindInfo describes an operation kind for listings.
type KindInfo struct {
	Kind    Kind
	Aliases []string
	Summary string
}

// Kinds returns all supported operation kinds in a stable order.
func Kinds() []KindInfo {
	return []KindInfo{
		{
			Kind:    KindLiteral,
			Aliases: []string{"substring", "replace"},
			Summary: "Replace every occurrence of a literal substring (or only the first).",
		},
		{
			Kind:    KindRegex,
			Aliases: []string{"pattern"},
			Summary: "Replace non-overlapping regexp matches; $1 and ${name} expand in the template.",
		},
		{
			Kind:    KindInsert,
			Aliases: []string{"line-insert"},
			Summary: "Insert a line before a 1-based line number, copying the target line's indentation.",
		},
		{
			Kind:    KindAppend,
			Aliases: []string{},
			Summary: "Append a block at end of file unless its marker already appears anywhere in it.",
		},
		{
			Kind:    KindWrite,
			Aliases: []string{"create"},
			Summary: "Create or overwrite a whole file, creating parent directories as needed.",
		},
		{
			Kind:    KindRename,
			Aliases: []string{"move"},
			Summary: "Rename a file; skipped when the source is missing or the destination exists.",
		},
	}
}

// Op is a single declarative patch operation. Which fields are meaningful
// depends on Kind; Validate enforces the per-kind requirements.
type Op struct {
	Kind   Kind   `yaml:"kind"`
	Target string `yaml:"target"`

	// Literal fields. Replace is shared with regex ops.
	Find      string `yaml:"find,omitempty"`
	Replace   string `yaml:"replace,omitempty"`
	FirstOnly bool   `yaml:"first_only,omitempty"`

	// Regex fields.
	Pattern string `yaml:"pattern,omitempty"`

	// Insert fields. Text is shared with append and write ops.
	Line        int    `yaml:"line,omitempty"`
	Text        string `yaml:"text,omitempty"`
	MatchIndent *bool  `yaml:"match_indent,omitempty"`

	// Append fields.
	Marker string `yaml:"marker,omitempty"`

	// Rename fields.
	To string `yaml:"to,omitempty"`
}

// matchIndent reports whether an insert op copies the target line's leading
// whitespace. Unset means true.
func (o Op) matchIndent() bool {
	return o.MatchIndent == nil || *o.MatchIndent
}

// Validate checks the per-kind required fields. Pattern compilation is the
// compiler's job; Validate only checks shape.
func (o Op) Validate() error {
	if o.Target == "" {
		return errors.New("missing target")
	}

	switch o.Kind {
	case KindLiteral:
		if o.Find == "" {
			return errors.New("literal op needs find")
		}
	case KindRegex:
		if o.Pattern == "" {
			return errors.New("regex op needs pattern")
		}
	case KindInsert:
		if o.Line < 1 {
			return errors.New("insert op needs a 1-based line")
		}
		if o.Text == "" {
			return errors.New("insert op needs text")
		}
	case KindAppend:
		if o.Marker == "" {
			return errors.New("append op needs marker")
		}
		if o.Text == "" {
			return errors.New("append op needs text")
		}
	case KindWrite:
		// Text may be empty: writing an empty file is legitimate.
	case KindRename:
		if o.To == "" {
			return errors.New("rename op needs to")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(o.Kind))
	}
	return nil
}

// Describe renders a short human-readable form for plan listings and logs.
func (o Op) Describe() string {
	switch o.Kind {
	case KindLiteral:
		return fmt.Sprintf("replace %q with %q", truncate(o.Find, 40), truncate(o.Replace, 40))
	case KindRegex:
		return fmt.Sprintf("replace /%s/ with %q", truncate(o.Pattern, 40), truncate(o.Replace, 40))
	case KindInsert:
		return fmt.Sprintf("insert %q before line %d", truncate(o.Text, 40), o.Line)
	case KindAppend:
		return fmt.Sprintf("append block guarded by %q", truncate(o.Marker, 40))
	case KindWrite:
		return fmt.Sprintf("write %d bytes", len(o.Text))
	case KindRename:
		return fmt.Sprintf("rename to %s", o.To)
	default:
		return string(o.Kind)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// Outcome classifies what applying one operation to one file did.
type Outcome int

const (
	// OutcomeApplied means the operation changed content.
	OutcomeApplied Outcome = iota

	// OutcomeNoop means the operation ran and found nothing to change.
	OutcomeNoop

	// OutcomeSkipped means a precondition failed: absent file, line out of
	// range, idempotency guard hit. The reason says which.
	OutcomeSkipped

	// OutcomeError means an I/O or internal failure, contained to the file.
	OutcomeError
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNoop:
		return "noop"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// OpResult records what one operation did to one file. Every operation a
// run executes produces exactly one OpResult.
type OpResult struct {
	// Op is the operation that produced this result.
	Op Op

	// Outcome classifies the result.
	Outcome Outcome

	// Reason explains skips and errors.
	Reason string

	// Occurrences counts replacements made or lines inserted.
	Occurrences int
}

func applied(op Op, occurrences int) OpResult {
	return OpResult{Op: op, Outcome: OutcomeApplied, Occurrences: occurrences}
}

func noop(op Op, reason string) OpResult {
	return OpResult{Op: op, Outcome: OutcomeNoop, Reason: reason}
}

func skipped(op Op, reason string) OpResult {
	return OpResult{Op: op, Outcome: OutcomeSkipped, Reason: reason}
}
