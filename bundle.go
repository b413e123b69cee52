package mdz

import (
	"bytes"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Bundle is the in-memory representation of a .mdz document package:
// a virtual file tree plus the main Markdown content and metadata
// derived from it.
//
// A Bundle is not safe for concurrent use. A Bundle that extracted to
// a temporary directory owns that directory until Cleanup or Close.
type Bundle struct {
	cfg         config
	tree        *Tree
	mainContent string
	metadata    map[string]any

	tempDir   string
	extracted map[string]string
}

// New returns an empty bundle seeded with the conventional entries
// (index.md, metadata.yaml, mermaid/, images/, additional_assets/).
func New(opts ...Option) *Bundle {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Bundle{
		cfg:      cfg,
		tree:     newDefaultTree(),
		metadata: map[string]any{},
	}
}

// CreateFromMarkdown populates the bundle from a Markdown document
// and optional metadata. The document is stored verbatim as index.md
// (any front matter included); metadata, if given, is also serialized
// into metadata.yaml.
func (b *Bundle) CreateFromMarkdown(content string, metadata map[string]any) error {
	b.mainContent = content
	b.tree.putFile(IndexPath, []byte(content), utf8.ValidString(content))
	if metadata != nil {
		out, err := marshalMetadata(metadata)
		if err != nil {
			return err
		}
		b.metadata = metadata
		b.tree.putFile(MetadataPath, out, true)
	}
	return nil
}

// AddFile stores content in the bundle and returns the internal path
// used. See Tree.AddFile for the extension routing applied when
// internalPath is empty.
func (b *Bundle) AddFile(source string, content []byte, internalPath string) string {
	return b.tree.AddFile(source, content, internalPath)
}

// AddDirectory inserts a directory marker into the bundle.
func (b *Bundle) AddDirectory(dir string) {
	b.tree.AddDirectory(dir)
}

// Save encodes the bundle with its configured method and compression
// level and writes the result to path.
func (b *Bundle) Save(path string) error {
	be, err := backendFor(b.cfg.method)
	if err != nil {
		return err
	}
	data, err := be.encode(b.tree, b.cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Info().
		Str("path", path).
		Int("level", b.cfg.level).
		Stringer("method", b.cfg.method).
		Msg("mdz: saved bundle")
	return nil
}

// Load reads a .mdz file, auto-detecting its encoding by trying each
// backend in order. The loaded bundle's Method reports whichever
// backend succeeded; if none does, the returned error wraps
// ErrUnrecognizedFormat and names every attempted decoding's failure.
func Load(path string, opts ...Option) (*Bundle, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, method, err := decodeBundle(data, cfg)
	if err != nil {
		return nil, err
	}
	cfg.method = method
	b := &Bundle{cfg: cfg, tree: tree, metadata: map[string]any{}}
	b.deriveContent()
	return b, nil
}

// deriveContent rebuilds mainContent and metadata from the tree after
// a load: front matter from index.md first, then metadata.yaml,
// which wins on key conflicts. Both entries are optional and a
// malformed metadata.yaml degrades to a logged warning.
func (b *Bundle) deriveContent() {
	if n, ok := b.tree.Get(IndexPath); ok && n.Kind == NodeFile && n.Text {
		body, fm := ExtractFrontMatter(string(n.Data))
		b.mainContent = body
		for k, v := range fm {
			b.metadata[k] = v
		}
	}
	if n, ok := b.tree.Get(MetadataPath); ok && n.Kind == NodeFile && n.Text && len(bytes.TrimSpace(n.Data)) > 0 {
		meta := map[string]any{}
		if err := yaml.Unmarshal(n.Data, &meta); err != nil {
			log.Warn().Err(err).Msg("mdz: failed to parse metadata.yaml")
		} else {
			for k, v := range meta {
				b.metadata[k] = v
			}
		}
	}
}

// MainContent returns the main Markdown body. After a load this is
// index.md with any leading front matter block removed.
func (b *Bundle) MainContent() string { return b.mainContent }

// Metadata returns the merged bundle metadata.
func (b *Bundle) Metadata() map[string]any { return b.metadata }

// Method reports the encoding used on save, or the detected encoding
// after a load.
func (b *Bundle) Method() CompressionMethod { return b.cfg.method }

// Tree exposes the underlying virtual filesystem.
func (b *Bundle) Tree() *Tree { return b.tree }

// Files lists file paths, optionally filtered by extension.
func (b *Bundle) Files(extFilter string) []string { return b.tree.Files(extFilter) }

// Directories lists directory paths.
func (b *Bundle) Directories() []string { return b.tree.Directories() }

// FileTypes counts files per extension.
func (b *Bundle) FileTypes() map[string]int { return b.tree.FileTypes() }

// FileSizes maps file paths to byte counts.
func (b *Bundle) FileSizes() map[string]int { return b.tree.FileSizes() }

// TotalSize is the total uncompressed size of all files in bytes.
func (b *Bundle) TotalSize() int { return b.tree.TotalSize() }
