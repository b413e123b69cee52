package mdz

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode/utf8"
)

// Tree is the in-memory virtual filesystem of a bundle: a mapping of
// slash-separated paths to directory markers and file nodes.
// Directory paths always carry a trailing slash. Tree operations are
// pure structural edits and never fail.
//
// A Tree is not safe for concurrent mutation.
type Tree struct {
	nodes map[string]Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]Node)}
}

// newDefaultTree returns a tree seeded with the conventional bundle
// entries: empty index.md and metadata.yaml plus the three asset
// directories.
func newDefaultTree() *Tree {
	t := NewTree()
	t.putFile(IndexPath, nil, true)
	t.putFile(MetadataPath, nil, true)
	t.AddDirectory(MermaidDir)
	t.AddDirectory(ImagesDir)
	t.AddDirectory(AssetsDir)
	return t
}

// AddFile stores content in the tree and returns the internal path
// actually used. When internalPath is empty the file is routed by the
// extension of source: Mermaid sources into mermaid/, images into
// images/, everything else into additional_assets/. Parent
// directories are created as needed.
//
// Content whose target path has a recognized text extension and is
// valid UTF-8 is tracked as text; anything else is tracked as binary.
func (t *Tree) AddFile(source string, content []byte, internalPath string) string {
	p := internalPath
	if p == "" {
		name := path.Base(normalizeSlashes(source))
		ext := strings.ToLower(path.Ext(name))
		switch {
		case mermaidExtensions[ext]:
			p = MermaidDir + name
		case imageExtensions[ext]:
			p = ImagesDir + name
		default:
			p = AssetsDir + name
		}
	} else {
		p = normalizeSlashes(p)
	}
	if dir := path.Dir(p); dir != "." {
		t.ensureDirectory(dir)
	}
	t.putFile(p, content, isTextPath(p) && utf8.Valid(content))
	return p
}

// AddDirectory inserts a directory marker, normalized to a trailing
// slash. Adding an existing directory is a no-op.
func (t *Tree) AddDirectory(dir string) {
	dir = normalizeSlashes(dir)
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	if _, ok := t.nodes[dir]; !ok {
		t.nodes[dir] = Node{Kind: NodeDir}
	}
}

// ensureDirectory creates dir and any missing parents.
func (t *Tree) ensureDirectory(dir string) {
	dir = strings.Trim(normalizeSlashes(dir), "/")
	if dir == "" || dir == "." {
		return
	}
	parts := strings.Split(dir, "/")
	for i := range parts {
		t.AddDirectory(strings.Join(parts[:i+1], "/"))
	}
}

// putFile stores a file node without routing.
func (t *Tree) putFile(p string, data []byte, text bool) {
	t.nodes[p] = Node{Kind: NodeFile, Data: data, Text: text}
}

// Get returns the node stored at p.
func (t *Tree) Get(p string) (Node, bool) {
	n, ok := t.nodes[p]
	return n, ok
}

// Files lists file paths in sorted order. A non-empty extFilter keeps
// only paths with that suffix (case-insensitive), e.g. ".png".
func (t *Tree) Files(extFilter string) []string {
	var out []string
	filter := strings.ToLower(extFilter)
	for p, n := range t.nodes {
		if n.Kind != NodeFile {
			continue
		}
		if filter != "" && !strings.HasSuffix(strings.ToLower(p), filter) {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Directories lists directory paths in sorted order.
func (t *Tree) Directories() []string {
	var out []string
	for p, n := range t.nodes {
		if n.Kind == NodeDir {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// FileSizes maps every file path to its size in bytes. Text entries
// are measured as UTF-8 byte length.
func (t *Tree) FileSizes() map[string]int {
	sizes := make(map[string]int)
	for p, n := range t.nodes {
		if n.Kind == NodeFile {
			sizes[p] = len(n.Data)
		}
	}
	return sizes
}

// TotalSize is the sum of all file sizes in bytes.
func (t *Tree) TotalSize() int {
	total := 0
	for _, n := range t.nodes {
		if n.Kind == NodeFile {
			total += len(n.Data)
		}
	}
	return total
}

// FileTypes counts files per lowercase extension. Files without an
// extension are counted under "(no extension)".
func (t *Tree) FileTypes() map[string]int {
	types := make(map[string]int)
	for p, n := range t.nodes {
		if n.Kind != NodeFile {
			continue
		}
		ext := strings.ToLower(path.Ext(p))
		if ext == "" {
			ext = "(no extension)"
		}
		types[ext]++
	}
	return types
}

func normalizeSlashes(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// validateBundlePath rejects entries that could escape an extraction
// directory. It is enforced when a tree touches the real filesystem,
// not on in-memory edits.
func validateBundlePath(p string) error {
	trimmed := strings.TrimSuffix(p, "/")
	if strings.TrimSpace(trimmed) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: %q is absolute", ErrInvalidPath, p)
	}
	if strings.Contains(p, "\\") {
		return fmt.Errorf("%w: %q must use forward slashes", ErrInvalidPath, p)
	}
	clean := path.Clean(trimmed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q escapes the bundle root", ErrInvalidPath, p)
	}
	return nil
}
