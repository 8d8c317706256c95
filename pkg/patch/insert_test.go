package patch_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/fixsweep/pkg/patch"
)

// compileTarget compiles ops that all address one file and returns its
// step list.
func compileTarget(t *testing.T, ops []patch.Op) *patch.TargetPlan {
	t.Helper()

	cp, err := patch.Compile(patch.Plan{Ops: ops}, patch.CompileOptions{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(cp.Targets) != 1 {
		t.Fatalf("Compile() produced %d targets, want 1", len(cp.Targets))
	}
	return cp.Targets[0]
}

// runContent applies ops to in-memory content.
func runContent(t *testing.T, content string, ops []patch.Op) *patch.PipelineResult {
	t.Helper()

	tp := compileTarget(t, ops)
	p := patch.NewPipeline(patch.DefaultPipelineOptions())
	result, err := p.ProcessContent(tp.Path, []byte(content), tp.Steps)
	if err != nil {
		t.Fatalf("ProcessContent() error = %v", err)
	}
	return result
}

func insertAt(line int) patch.Op {
	return patch.Op{Kind: patch.KindInsert, Target: "f.ts", Line: line, Text: "//X"}
}

func TestInsert(t *testing.T) {
	t.Parallel()

	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name     string
		content  string
		ops      []patch.Op
		expected string
		outcomes []patch.Outcome
	}{
		{
			name:     "insert before line 2",
			content:  "a\nb\nc\n",
			ops:      []patch.Op{insertAt(2)},
			expected: "a\n//X\nb\nc\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied},
		},
		{
			name:     "insert before first line",
			content:  "a\nb\n",
			ops:      []patch.Op{insertAt(1)},
			expected: "//X\na\nb\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied},
		},
		{
			name:     "insert before final empty segment",
			content:  "a\nb\nc\n",
			ops:      []patch.Op{insertAt(4)},
			expected: "a\nb\nc\n//X\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied},
		},
		{
			name:     "no trailing newline",
			content:  "a\nb",
			ops:      []patch.Op{insertAt(2)},
			expected: "a\n//X\nb",
			outcomes: []patch.Outcome{patch.OutcomeApplied},
		},
		{
			name:     "empty file has one line",
			content:  "",
			ops:      []patch.Op{insertAt(1)},
			expected: "//X\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied},
		},
		{
			name:     "adjacent lines both inserted",
			content:  "a\nb\nc\n",
			ops:      []patch.Op{insertAt(2), insertAt(3)},
			expected: "a\n//X\nb\n//X\nc\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied, patch.OutcomeApplied},
		},
		{
			name:     "duplicate line collapses to one insertion",
			content:  "a\nb\nc\n",
			ops:      []patch.Op{insertAt(2), insertAt(2)},
			expected: "a\n//X\nb\nc\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied, patch.OutcomeSkipped},
		},
		{
			name:     "line out of range",
			content:  "a\n",
			ops:      []patch.Op{insertAt(5)},
			expected: "a\n",
			outcomes: []patch.Outcome{patch.OutcomeSkipped},
		},
		{
			name:     "guard on previous line",
			content:  "a\n//X\nb\n",
			ops:      []patch.Op{insertAt(3)},
			expected: "a\n//X\nb\n",
			outcomes: []patch.Outcome{patch.OutcomeSkipped},
		},
		{
			name:     "guard on target line",
			content:  "//X\nb\n",
			ops:      []patch.Op{insertAt(1)},
			expected: "//X\nb\n",
			outcomes: []patch.Outcome{patch.OutcomeSkipped},
		},
		{
			name:     "guard matches indented text by containment",
			content:  "a\n    //X trailing\nb\n",
			ops:      []patch.Op{insertAt(3)},
			expected: "a\n    //X trailing\nb\n",
			outcomes: []patch.Outcome{patch.OutcomeSkipped},
		},
		{
			name:     "tab indentation copied",
			content:  "func main() {\n\tval := 1\n}\n",
			ops:      []patch.Op{{Kind: patch.KindInsert, Target: "f.ts", Line: 2, Text: "// note"}},
			expected: "func main() {\n\t// note\n\tval := 1\n}\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied},
		},
		{
			name:     "space indentation copied",
			content:  "    x = 1\n",
			ops:      []patch.Op{insertAt(1)},
			expected: "    //X\n    x = 1\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied},
		},
		{
			name:    "indent matching disabled",
			content: "    x = 1\n",
			ops: []patch.Op{{
				Kind: patch.KindInsert, Target: "f.ts", Line: 1, Text: "//X",
				MatchIndent: boolPtr(false),
			}},
			expected: "//X\n    x = 1\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied},
		},
		{
			name:     "crlf file gets crlf insertion",
			content:  "a\r\nb\r\n",
			ops:      []patch.Op{insertAt(2)},
			expected: "a\r\n//X\r\nb\r\n",
			outcomes: []patch.Outcome{patch.OutcomeApplied},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := runContent(t, tt.content, tt.ops)

			got := tt.content
			if result.Modified {
				got = string(result.ModifiedContent)
			}
			if got != tt.expected {
				t.Errorf("content = %q, want %q", got, tt.expected)
			}

			if len(result.OpResults) != len(tt.outcomes) {
				t.Fatalf("got %d op results, want %d", len(result.OpResults), len(tt.outcomes))
			}
			for i, want := range tt.outcomes {
				if result.OpResults[i].Outcome != want {
					t.Errorf("op %d outcome = %v, want %v (reason %q)",
						i, result.OpResults[i].Outcome, want, result.OpResults[i].Reason)
				}
			}
		})
	}
}

// TestInsert_DescendingOrder checks that a batch with duplicate and
// unordered line numbers produces exactly one insertion per distinct line,
// each before the originally numbered line.
func TestInsert_DescendingOrder(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 1; i <= 50; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	content := strings.Join(lines, "\n") + "\n"

	result := runContent(t, content, []patch.Op{
		insertAt(12), insertAt(47), insertAt(47), insertAt(5),
	})

	// Reference behavior: insert bottom-up so earlier insertions cannot
	// shift later targets.
	expected := append([]string{}, lines...)
	expected = append(expected, "") // trailing newline segment
	for _, n := range []int{47, 12, 5} {
		expected = append(expected[:n-1], append([]string{"//X"}, expected[n-1:]...)...)
	}
	want := strings.Join(expected, "\n")

	if got := string(result.ModifiedContent); got != want {
		t.Errorf("content mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}

	applied := 0
	for _, opRes := range result.OpResults {
		if opRes.Outcome == patch.OutcomeApplied {
			applied++
		}
	}
	if applied != 3 {
		t.Errorf("applied insertions = %d, want 3", applied)
	}
}

func TestInsert_NotModifiedWhenAllGuarded(t *testing.T) {
	t.Parallel()

	content := "//X\na\n"
	result := runContent(t, content, []patch.Op{insertAt(1)})

	if result.Modified {
		t.Error("Modified = true for fully guarded insertion pass")
	}
	if result.ModifiedContent != nil {
		t.Error("ModifiedContent should be nil when nothing changed")
	}
}
