// Package mdz implements the MDZ compressed Markdown bundle format.
//
// An MDZ file packages a Markdown document together with its images,
// Mermaid diagram sources, and YAML metadata into a single compressed
// file (conventionally with a .mdz extension). The format exists so a
// document and everything it references can be moved, archived, and
// opened as one unit.
//
// # File Format Overview
//
// An MDZ file is one Zstandard-compressed payload in one of two
// encodings:
//
//   - Standard: a tar archive of the bundle tree, compressed with
//     plain Zstandard at a configurable level (1-22).
//   - Secure: a zip archive of the bundle tree, compressed with
//     Zstandard seeded by a raw dictionary derived from a SHA-256
//     digest. The digest binds the payload to its encoding; it is a
//     format marker, not encryption.
//
// There is no magic number distinguishing the two. Load attempts the
// Standard decoding first and falls back to Secure; whichever
// succeeds determines the bundle's CompressionMethod.
//
// # Bundle Layout
//
// Inside the decoded tree the conventional entries are:
//
//	index.md            main Markdown document
//	metadata.yaml       YAML metadata (wins over front matter)
//	mermaid/            Mermaid diagram sources
//	images/             raster and vector images
//	additional_assets/  everything else
//
// Files added without an explicit internal path are routed by
// extension into one of the three directories above.
//
// # Basic Usage
//
// To create and save a bundle:
//
//	b := mdz.New(mdz.WithCompressionLevel(5))
//	b.CreateFromMarkdown("# Hello\n", map[string]any{"title": "Hello"})
//	b.AddFile("logo.png", logoBytes, "")
//	err := b.Save("out.mdz")
//
// To load and inspect one:
//
//	b, err := mdz.Load("in.mdz")
//	if err != nil { ... }
//	defer b.Close()
//	body := b.MainContent()
//	meta := b.Metadata()
//
// # Security Considerations
//
// Decoding enforces a maximum decompressed size to prevent
// decompression bombs (see WithMaxDecodedSize). Internal paths are
// validated before any extraction so a hostile bundle cannot write
// outside the target directory.
package mdz
