package logsink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// rotateBudgetBytes is the size node.log is allowed to reach before its
// content is gzip-compressed into node.log.1.gz and a fresh file started.
const rotateBudgetBytes = 131072

// RotatingFile is an io.WriteCloser that rotates the underlying file once
// it crosses rotateBudgetBytes, gzip-compressing the prior segment into
// "<path>.1.gz" (overwriting any earlier one).
type RotatingFile struct {
	path string

	mu   sync.Mutex
	f    *os.File
	size int64
}

// Open opens (or creates) path for the log sink, positioned for append.
func Open(path string) (*RotatingFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("logsink: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("logsink: stat %s: %w", path, err)
	}
	return &RotatingFile{path: path, f: f, size: info.Size()}, nil
}

// Write implements io.Writer, rotating first if this write would cross
// the budget.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size > 0 && r.size+int64(len(p)) > rotateBudgetBytes {
		if err := r.rotateLocked(); err != nil {
			return 0, err
		}
	}

	n, err := r.f.Write(p)
	r.size += int64(n)
	return n, err
}

// Close implements io.Closer.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f.Close()
}

func (r *RotatingFile) rotateLocked() error {
	if err := r.f.Close(); err != nil {
		return fmt.Errorf("logsink: close before rotate: %w", err)
	}

	gzPath := r.path + ".1.gz"
	if err := gzipFile(r.path, gzPath); err != nil {
		return fmt.Errorf("logsink: compress rotated segment: %w", err)
	}
	if err := os.Remove(r.path); err != nil {
		return fmt.Errorf("logsink: remove rotated segment: %w", err)
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("logsink: reopen after rotate: %w", err)
	}
	r.f = f
	r.size = 0
	return nil
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}

// ForConfig opens the configured sink: stdout if homeDir is empty or
// toStdout is true, else a RotatingFile at <homeDir>/node.log.
func ForConfig(homeDir string, toStdout bool) (io.WriteCloser, error) {
	if toStdout || homeDir == "" {
		return nopCloser{os.Stdout}, nil
	}
	return Open(filepath.Join(homeDir, "node.log"))
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
