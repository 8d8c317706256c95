package textdetect_test

import (
	"testing"

	"github.com/yaklabco/fixsweep/pkg/textdetect"
)

func TestIsBinary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{
			name:    "plain text",
			content: []byte("hello world\n"),
			want:    false,
		},
		{
			name:    "typescript source",
			content: []byte("const x: number = 42;\nexport default x;\n"),
			want:    false,
		},
		{
			name:    "empty content",
			content: []byte{},
			want:    false,
		},
		{
			name:    "null bytes",
			content: []byte{0x00, 0x01, 0x02, 0x03, 0xff},
			want:    true,
		},
		{
			name:    "png header",
			content: []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := textdetect.IsBinary(tt.content)
			if got != tt.want {
				t.Errorf("IsBinary() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		content string
		want    string
	}{
		{
			name:    "typescript by extension",
			path:    "src/app/page.tsx",
			content: "export default function Page() { return null; }",
			want:    "tsx",
		},
		{
			name:    "go by extension",
			path:    "main.go",
			content: "package main\n",
			want:    "go",
		},
		{
			name:    "python by extension",
			path:    "fix.py",
			content: "def fix():\n    pass\n",
			want:    "python",
		},
		{
			name:    "shell by shebang",
			path:    "run",
			content: "#!/bin/sh\necho hi\n",
			want:    "bash",
		},
		{
			name:    "unknown falls back to text",
			path:    "data.xyzzy",
			content: "something",
			want:    "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := textdetect.Language(tt.path, []byte(tt.content))
			if got != tt.want {
				t.Errorf("Language(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetectEOL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unix endings",
			content: "a\nb\nc\n",
			want:    textdetect.EOLUnix,
		},
		{
			name:    "windows endings",
			content: "a\r\nb\r\nc\r\n",
			want:    textdetect.EOLWindows,
		},
		{
			name:    "mixed majority windows",
			content: "a\r\nb\r\nc\n",
			want:    textdetect.EOLWindows,
		},
		{
			name:    "mixed majority unix",
			content: "a\nb\nc\r\n",
			want:    textdetect.EOLUnix,
		},
		{
			name:    "no newline defaults to unix",
			content: "single line",
			want:    textdetect.EOLUnix,
		},
		{
			name:    "empty defaults to unix",
			content: "",
			want:    textdetect.EOLUnix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := textdetect.DetectEOL([]byte(tt.content))
			if got != tt.want {
				t.Errorf("DetectEOL() = %q, want %q", got, tt.want)
			}
		})
	}
}
