package checker

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
)

// Diagnostic is a single checker finding located in a source file.
type Diagnostic struct {
	// Path is the file path as reported by the checker, usually relative
	// to the checker's working directory.
	Path string

	// Line is the 1-based line number.
	Line int

	// Column is the 1-based column number.
	Column int

	// Message is the checker's description of the problem.
	Message string
}

// String renders the diagnostic in its wire format.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s(%d,%d): %s", d.Path, d.Line, d.Column, d.Message)
}

// diagnosticPattern matches `path(line,col): message` lines as emitted by
// tsc-style checkers. The path must not contain an opening parenthesis.
var diagnosticPattern = regexp.MustCompile(`^([^(]+)\((\d+),(\d+)\): (.+)$`)

// maxScanLine caps the scanner's line buffer. Minified bundles can put a
// whole file's diagnostics on one enormous line.
const maxScanLine = 1024 * 1024

// ParseDiagnostics scans checker output for diagnostic lines.
//
// Lines that do not match the diagnostic pattern are ignored without error:
// checker output freely mixes progress messages, summaries and blank lines
// with the findings. Duplicate findings are preserved; plan building dedupes
// them later. The function is a pure function of its input, so re-running a
// checker and re-parsing always yields the same diagnostics.
func ParseDiagnostics(r io.Reader) ([]Diagnostic, error) {
	var diags []Diagnostic

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanLine)
	for scanner.Scan() {
		m := diagnosticPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		line, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		column, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		diags = append(diags, Diagnostic{
			Path:    strings.TrimSpace(m[1]),
			Line:    line,
			Column:  column,
			Message: m[4],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan checker output: %w", err)
	}

	return diags, nil
}

// FilterByPath keeps diagnostics whose path matches at least one include
// pattern. Patterns use doublestar glob syntax against slash-separated
// paths. An empty pattern list keeps everything.
func FilterByPath(diags []Diagnostic, includeGlobs []string) []Diagnostic {
	if len(includeGlobs) == 0 {
		return diags
	}

	return lo.Filter(diags, func(d Diagnostic, _ int) bool {
		path := filepath.ToSlash(d.Path)
		for _, pattern := range includeGlobs {
			if ok, err := doublestar.Match(pattern, path); err == nil && ok {
				return true
			}
		}
		return false
	})
}
