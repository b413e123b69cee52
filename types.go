package mdz

import (
	"fmt"
	"path"
	"strings"
)

// CompressionMethod identifies which of the two bundle encodings a
// file uses. The method has no on-disk representation; it is detected
// by trial on load and chosen explicitly on save.
type CompressionMethod uint8

const (
	// MethodStandard is the tar-based encoding: zstd(tar(tree)).
	MethodStandard CompressionMethod = iota

	// MethodSecure is the checksum-dictionary encoding:
	// zstd with a SHA-256-derived raw dictionary over zip(tree).
	MethodSecure
)

// String returns the human-readable name of a compression method.
func (m CompressionMethod) String() string {
	switch m {
	case MethodStandard:
		return "standard"
	case MethodSecure:
		return "secure"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// ParseCompressionMethod parses a compression method from its string
// representation.
func ParseCompressionMethod(name string) (CompressionMethod, error) {
	switch name {
	case "standard":
		return MethodStandard, nil
	case "secure":
		return MethodSecure, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// NodeKind distinguishes the two variants of a tree node.
type NodeKind uint8

const (
	NodeDir NodeKind = iota
	NodeFile
)

// Node is one entry of a bundle tree: either a directory marker or a
// file with content. Text records whether Data is UTF-8 text; a file
// whose extension suggests text but whose bytes are not valid UTF-8
// is kept as binary.
type Node struct {
	Kind NodeKind
	Data []byte
	Text bool
}

// Conventional entries present in every new bundle.
const (
	IndexPath    = "index.md"
	MetadataPath = "metadata.yaml"
	MermaidDir   = "mermaid/"
	ImagesDir    = "images/"
	AssetsDir    = "additional_assets/"
)

const (
	// DefaultCompressionLevel matches the original format tooling.
	DefaultCompressionLevel = 3

	minCompressionLevel = 1
	maxCompressionLevel = 22
)

// textExtensions lists the extensions decoded as UTF-8 text when a
// bundle is read. Files with any other extension stay binary.
var textExtensions = map[string]bool{
	".md":      true,
	".txt":     true,
	".yaml":    true,
	".yml":     true,
	".json":    true,
	".mmd":     true,
	".mermaid": true,
}

// imageExtensions lists the extensions auto-routed into images/.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
}

// mermaidExtensions lists the extensions auto-routed into mermaid/.
var mermaidExtensions = map[string]bool{
	".mmd":     true,
	".mermaid": true,
}

func isTextPath(p string) bool {
	return textExtensions[strings.ToLower(path.Ext(p))]
}
