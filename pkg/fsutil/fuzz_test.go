package fsutil_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/fixsweep/pkg/fsutil"
)

// FuzzWriteRoundTrip drives arbitrary content through WriteAtomic and checks
// the exact bytes land, then verifies the fresh snapshot reads back clean.
func FuzzWriteRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("const x = 1\n"))
	f.Add([]byte("line one\r\nline two\r\n"))
	f.Add([]byte("trailing spaces  \n"))
	f.Add([]byte{0x00, 0xff, 0x7f, 0x0a})
	f.Add(bytes.Repeat([]byte{'a'}, 4096))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "target.ts")
		ctx := context.Background()

		if err := fsutil.WriteAtomic(ctx, path, content, 0644); err != nil {
			t.Fatalf("WriteAtomic: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Fatalf("round trip lost bytes: wrote %d, read %d", len(content), len(got))
		}

		// A snapshot taken now must not flag its own file.
		read, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if !bytes.Equal(read, content) {
			t.Fatal("ReadFile returned different bytes than WriteAtomic stored")
		}
		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil {
			t.Fatalf("CheckModified: %v", err)
		}
		if modified {
			t.Error("unmodified file reported as modified")
		}

		// Re-writing identical bytes must be recognized as a no-op.
		changed, err := fsutil.WriteAtomicIfChanged(ctx, path, content, 0644)
		if err != nil {
			t.Fatalf("WriteAtomicIfChanged: %v", err)
		}
		if changed {
			t.Error("identical rewrite reported as a change")
		}
	})
}
