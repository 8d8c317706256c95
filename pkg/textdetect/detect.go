// Package textdetect classifies file content before patching.
// It uses go-enry to keep binary files out of the patch pipeline and to
// tag files with a language for reporting, and detects the dominant line
// ending so inserted lines follow the file's own convention.
package textdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// langText is the fallback tag when detection fails.
const langText = "text"

// Line ending sequences.
const (
	EOLUnix    = "\n"
	EOLWindows = "\r\n"
)

// IsBinary reports whether content looks like binary rather than
// line-oriented text. Binary files are skipped, never patched.
func IsBinary(content []byte) bool {
	return enry.IsBinary(content)
}

// Language returns a lowercase language tag for the file.
// Returns "text" if detection fails.
func Language(path string, content []byte) string {
	lang := enry.GetLanguage(filepath.Base(path), content)
	if lang == "" {
		return langText
	}
	return normalize(lang)
}

// DetectEOL returns the dominant line ending in content.
// Content without newlines defaults to EOLUnix.
func DetectEOL(content []byte) string {
	total := bytes.Count(content, []byte("\n"))
	if total == 0 {
		return EOLUnix
	}

	crlf := bytes.Count(content, []byte("\r\n"))
	if crlf*2 > total {
		return EOLWindows
	}
	return EOLUnix
}

// normalize converts go-enry language names to short tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
