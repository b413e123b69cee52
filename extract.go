package mdz

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ExtractToDirectory materializes every bundle entry under dir,
// creating it if absent, and returns a mapping from internal paths to
// the filesystem paths written. Entry paths are validated first so a
// hostile bundle cannot write outside dir.
func (b *Bundle) ExtractToDirectory(dir string) (map[string]string, error) {
	for _, p := range append(b.tree.Directories(), b.tree.Files("")...) {
		if err := validateBundlePath(p); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	b.extracted = make(map[string]string)
	for _, d := range b.tree.Directories() {
		if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(d)), 0o755); err != nil {
			return nil, err
		}
	}
	for _, p := range b.tree.Files("") {
		n, _ := b.tree.Get(p)
		target := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(target, n.Data, 0o644); err != nil {
			return nil, err
		}
		b.extracted[p] = target
	}
	log.Info().Str("dir", dir).Int("files", len(b.extracted)).Msg("mdz: extracted bundle")
	return b.extracted, nil
}

// ExtractToTemp extracts the bundle into a fresh uniquely-named
// temporary directory owned by this bundle. Any previously owned
// temporary directory is released first.
func (b *Bundle) ExtractToTemp() (map[string]string, error) {
	if b.tempDir != "" {
		if err := b.Cleanup(); err != nil {
			return nil, err
		}
	}
	dir := filepath.Join(os.TempDir(), "mdz_extract_"+uuid.NewString())
	paths, err := b.ExtractToDirectory(dir)
	if err != nil {
		return nil, err
	}
	b.tempDir = dir
	return paths, nil
}

// TempDir reports the temporary extraction directory owned by the
// bundle, if any.
func (b *Bundle) TempDir() string { return b.tempDir }

// AssetPath returns the filesystem path an entry was extracted to.
func (b *Bundle) AssetPath(internalPath string) (string, bool) {
	p, ok := b.extracted[internalPath]
	return p, ok
}

// Cleanup removes the owned temporary extraction directory. It is
// safe to call repeatedly or when nothing was extracted.
func (b *Bundle) Cleanup() error {
	if b.tempDir == "" {
		return nil
	}
	if err := os.RemoveAll(b.tempDir); err != nil {
		return err
	}
	b.tempDir = ""
	return nil
}

// Close releases bundle-owned resources. It implements io.Closer so
// a bundle can be scoped with defer.
func (b *Bundle) Close() error { return b.Cleanup() }
