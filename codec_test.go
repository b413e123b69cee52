package mdz

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleBundle(t *testing.T, method CompressionMethod) *Bundle {
	t.Helper()
	b := New(WithMethod(method), WithCompressionLevel(5))
	err := b.CreateFromMarkdown("---\ntitle: Sample\n---\n# Sample\n\nSome body text.\n", nil)
	if err != nil {
		t.Fatal(err)
	}
	b.AddFile("flow.mmd", []byte("graph TD\n  A --> B\n"), "")
	b.AddFile("logo.png", []byte{0x89, 0x50, 0x4E, 0x47, 0x00, 0x01, 0x02, 0xFF}, "")
	b.AddFile("data.bin", bytes.Repeat([]byte{0xDE, 0xAD}, 50), "additional_assets/data.bin")
	return b
}

func saveToTemp(t *testing.T, b *Bundle) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.mdz")
	if err := b.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func TestRoundTripBothMethods(t *testing.T) {
	for _, method := range []CompressionMethod{MethodStandard, MethodSecure} {
		t.Run(method.String(), func(t *testing.T) {
			b := sampleBundle(t, method)
			path := saveToTemp(t, b)

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Method() != method {
				t.Fatalf("detected method = %v, want %v", got.Method(), method)
			}
			for _, p := range b.Files("") {
				want, _ := b.Tree().Get(p)
				have, ok := got.Tree().Get(p)
				if !ok {
					t.Fatalf("entry %q missing after round trip", p)
				}
				if !bytes.Equal(want.Data, have.Data) {
					t.Fatalf("entry %q content mismatch: %q vs %q", p, want.Data, have.Data)
				}
			}
			for _, d := range b.Directories() {
				found := false
				for _, g := range got.Directories() {
					if g == d {
						found = true
					}
				}
				if !found {
					t.Fatalf("directory %q missing after round trip", d)
				}
			}
		})
	}
}

func TestLoadDerivesMainContentAndMetadata(t *testing.T) {
	b := sampleBundle(t, MethodStandard)
	path := saveToTemp(t, b)

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.MainContent() != "# Sample\n\nSome body text." {
		t.Fatalf("main content = %q", got.MainContent())
	}
	if got.Metadata()["title"] != "Sample" {
		t.Fatalf("metadata = %v", got.Metadata())
	}
}

func TestMetadataYAMLWinsOverFrontMatter(t *testing.T) {
	b := New()
	err := b.CreateFromMarkdown("---\ntitle: A\n---\nBody", map[string]any{"title": "B"})
	if err != nil {
		t.Fatal(err)
	}
	path := saveToTemp(t, b)

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata()["title"] != "B" {
		t.Fatalf("title = %v, want metadata.yaml to win", got.Metadata()["title"])
	}
	if got.MainContent() != "Body" {
		t.Fatalf("main content = %q", got.MainContent())
	}
}

func TestLoadCorruptedPayloadFails(t *testing.T) {
	for _, method := range []CompressionMethod{MethodStandard, MethodSecure} {
		t.Run(method.String(), func(t *testing.T) {
			path := saveToTemp(t, sampleBundle(t, method))
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			// Flip bytes past the frame header.
			mid := len(data) / 2
			for i := mid; i < mid+4 && i < len(data); i++ {
				data[i] ^= 0xFF
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatal(err)
			}
			_, err = Load(path)
			if err == nil {
				t.Fatal("expected load of corrupted bundle to fail")
			}
			if !errors.Is(err, ErrUnrecognizedFormat) {
				t.Fatalf("expected ErrUnrecognizedFormat, got %v", err)
			}
		})
	}
}

func TestLoadForeignFileNamesBothBackends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-bundle.mdz")
	if err := os.WriteFile(path, []byte("this is just text, not zstd at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrUnrecognizedFormat) {
		t.Fatalf("expected ErrUnrecognizedFormat, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "standard:") || !strings.Contains(msg, "secure:") {
		t.Fatalf("aggregate error must name both backends: %q", msg)
	}
}

func TestCompressionEffectiveness(t *testing.T) {
	b := New(WithCompressionLevel(5))
	repetitive := strings.Repeat("the same line of text appears many times\n", 500)
	if err := b.CreateFromMarkdown(repetitive, nil); err != nil {
		t.Fatal(err)
	}
	path := saveToTemp(t, b)
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() >= int64(len(repetitive)) {
		t.Fatalf("compressed size %d not smaller than source %d", fi.Size(), len(repetitive))
	}
}

func TestMaxDecodedSizeGuard(t *testing.T) {
	b := New()
	if err := b.CreateFromMarkdown(strings.Repeat("a", 64<<10), nil); err != nil {
		t.Fatal(err)
	}
	path := saveToTemp(t, b)

	if _, err := Load(path, WithMaxDecodedSize(1024)); !errors.Is(err, ErrUnrecognizedFormat) {
		t.Fatalf("expected size guard to reject load, got %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("default limit should accept the bundle: %v", err)
	}
}

func TestBinaryTextFallbackOnDecode(t *testing.T) {
	b := New()
	notUTF8 := []byte{0xff, 0xfe, 0x00, 0x01}
	b.AddFile("weird.md", notUTF8, "additional_assets/weird.md")
	path := saveToTemp(t, b)

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := got.Tree().Get("additional_assets/weird.md")
	if !ok {
		t.Fatal("entry missing")
	}
	if n.Text {
		t.Fatal("invalid UTF-8 in a text-extension entry must degrade to binary")
	}
	if !bytes.Equal(n.Data, notUTF8) {
		t.Fatalf("bytes altered: %v", n.Data)
	}
}

func TestCompressionLevelClamped(t *testing.T) {
	if got := clampLevel(0); got != minCompressionLevel {
		t.Fatalf("clampLevel(0) = %d", got)
	}
	if got := clampLevel(99); got != maxCompressionLevel {
		t.Fatalf("clampLevel(99) = %d", got)
	}
	b := New(WithCompressionLevel(100))
	if b.cfg.level != maxCompressionLevel {
		t.Fatalf("option did not clamp: %d", b.cfg.level)
	}
}

func TestParseCompressionMethod(t *testing.T) {
	m, err := ParseCompressionMethod("secure")
	if err != nil || m != MethodSecure {
		t.Fatalf("secure: %v %v", m, err)
	}
	if _, err := ParseCompressionMethod("zip"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
	if MethodStandard.String() != "standard" || MethodSecure.String() != "secure" {
		t.Fatal("String() mismatch")
	}
}
