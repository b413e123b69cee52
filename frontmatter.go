package mdz

import (
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const frontMatterMarker = "---"

// ExtractFrontMatter splits a leading YAML front matter block from a
// Markdown document. The block is recognized only when the document
// starts with the "---" marker and a second marker follows; otherwise
// the content is returned unchanged with empty metadata.
//
// A block that fails to parse as YAML is still stripped: loading the
// document body must not be blocked by malformed metadata. The
// failure is logged as a warning and empty metadata is returned.
func ExtractFrontMatter(content string) (string, map[string]any) {
	if !strings.HasPrefix(content, frontMatterMarker) {
		return content, map[string]any{}
	}
	end := strings.Index(content[len(frontMatterMarker):], frontMatterMarker)
	if end < 0 {
		return content, map[string]any{}
	}
	end += len(frontMatterMarker)

	block := strings.TrimSpace(content[len(frontMatterMarker):end])
	remainder := strings.TrimSpace(content[end+len(frontMatterMarker):])

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		log.Warn().Err(err).Msg("mdz: failed to parse front matter")
		return remainder, map[string]any{}
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return remainder, meta
}

// marshalMetadata renders metadata as a block-style YAML document for
// the metadata.yaml entry.
func marshalMetadata(meta map[string]any) ([]byte, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
