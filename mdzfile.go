package mdz

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// imageRefPattern matches Markdown inline image references and
// captures the target path.
var imageRefPattern = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)

// CreateFromMarkdownFile builds a .mdz bundle from a Markdown file on
// disk and saves it to outputPath. Front matter in the document
// becomes the bundle metadata. When includeImages is true, local
// image references are resolved relative to the markdown file's
// directory and added to the bundle at their referenced paths;
// unresolvable references are logged and skipped.
func CreateFromMarkdownFile(markdownPath, outputPath string, includeImages bool, opts ...Option) error {
	raw, err := os.ReadFile(markdownPath)
	if err != nil {
		return err
	}
	content := string(raw)
	body, frontMatter := ExtractFrontMatter(content)

	b := New(opts...)
	if err := b.CreateFromMarkdown(content, frontMatter); err != nil {
		return err
	}

	if includeImages {
		baseDir := filepath.Dir(markdownPath)
		for _, m := range imageRefPattern.FindAllStringSubmatch(body, -1) {
			ref := m[1]
			if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(ref)))
			if err != nil {
				log.Warn().Err(err).Str("ref", ref).Msg("mdz: skipping unresolvable image reference")
				continue
			}
			b.AddFile(ref, data, ref)
		}
	}

	return b.Save(outputPath)
}

// ExtractToMarkdown loads a .mdz bundle, writes its main content to
// outputPath as a Markdown file, optionally extracts all assets into
// the output file's directory, and returns the bundle metadata.
func ExtractToMarkdown(mdzPath, outputPath string, extractAssets bool, opts ...Option) (map[string]any, error) {
	b, err := Load(mdzPath, opts...)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if err := os.WriteFile(outputPath, []byte(b.MainContent()), 0o644); err != nil {
		return nil, err
	}
	if extractAssets {
		if _, err := b.ExtractToDirectory(filepath.Dir(outputPath)); err != nil {
			return nil, err
		}
	}
	return b.Metadata(), nil
}

// Info describes a .mdz file on disk.
type Info struct {
	FileSize              int64
	Method                CompressionMethod
	FileCount             int
	DirectoryCount        int
	TotalUncompressedSize int
	CompressionRatio      float64
	FileTypes             map[string]int
	Metadata              map[string]any
}

// Stat loads a .mdz file and reports its size, detected encoding,
// compression ratio, and content summary.
func Stat(mdzPath string, opts ...Option) (*Info, error) {
	fi, err := os.Stat(mdzPath)
	if err != nil {
		return nil, err
	}
	b, err := Load(mdzPath, opts...)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	total := b.TotalSize()
	ratio := 0.0
	if fi.Size() > 0 {
		ratio = float64(total) / float64(fi.Size())
	}
	return &Info{
		FileSize:              fi.Size(),
		Method:                b.Method(),
		FileCount:             len(b.Files("")),
		DirectoryCount:        len(b.Directories()),
		TotalUncompressedSize: total,
		CompressionRatio:      ratio,
		FileTypes:             b.FileTypes(),
		Metadata:              b.Metadata(),
	}, nil
}
