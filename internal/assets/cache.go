// Package assets mirrors diagram asset files into the public output
// tree and re-renders PDFs, doing the minimum work a make-like
// mtime comparison allows. Reruns are near-free when sources have not
// changed.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// CopyIfNewer copies src to dst unless dst already exists with an
// mtime at or after src's. Any stat error on either side (most
// commonly a missing dst) falls through to copying. Returns whether a
// copy happened. The copy is a full file-content copy, not a symlink.
func CopyIfNewer(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err == nil {
		if dstInfo, err := os.Stat(dst); err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
			return false, nil
		}
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", dst, err)
	}
	return true, nil
}

// ShouldRenderPDF reports whether the PDF at dst is stale relative to
// the source at src. If either stat fails (most commonly: dst does not
// exist yet), the render is needed.
func ShouldRenderPDF(src, dst string) bool {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return true
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return true
	}
	return srcInfo.ModTime().After(dstInfo.ModTime())
}
