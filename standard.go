package mdz

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
)

// standardBackend implements the tar-based encoding: the bundle tree
// is materialized as a tar archive and the archive stream is
// compressed with dictionary-free Zstandard.
type standardBackend struct{}

func (standardBackend) method() CompressionMethod { return MethodStandard }

func (standardBackend) encode(t *Tree, cfg config) ([]byte, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, dir := range t.Directories() {
		hdr := &tar.Header{
			Typeflag: tar.TypeDir,
			Name:     dir,
			Mode:     0o755,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
	}
	for _, p := range t.Files("") {
		n, _ := t.Get(p)
		hdr := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     p,
			Mode:     0o644,
			Size:     int64(len(n.Data)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if _, err := tw.Write(n.Data); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return zstdCompress(buf.Bytes(), cfg.level, nil)
}

func (standardBackend) decode(data []byte, cfg config) (*Tree, error) {
	raw, err := zstdDecompress(data, cfg.maxDecodedSize, nil)
	if err != nil {
		return nil, err
	}
	t := NewTree()
	tr := tar.NewReader(bytes.NewReader(raw))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: tar: %v", ErrDecode, err)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			t.AddDirectory(hdr.Name)
		case tar.TypeReg:
			content, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("%w: tar entry %q: %v", ErrDecode, hdr.Name, err)
			}
			t.putFile(hdr.Name, content, isTextPath(hdr.Name) && utf8.Valid(content))
		}
	}
	return t, nil
}

// zstdCompress compresses in at the given level. A non-nil dict is
// registered as a raw content dictionary with ID 0, so the frame
// carries no dictionary reference.
func zstdCompress(in []byte, level int, dict []byte) ([]byte, error) {
	opts := []zstd.EOption{
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(clampLevel(level))),
	}
	if dict != nil {
		opts = append(opts, zstd.WithEncoderDictRaw(0, dict))
	}
	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(in, nil), nil
}

// zstdDecompress decompresses in, failing hard on a truncated or
// corrupted stream. maxDecoded bounds the decompressed size to guard
// against decompression bombs.
func zstdDecompress(in []byte, maxDecoded uint64, dict []byte) ([]byte, error) {
	opts := []zstd.DOption{zstd.WithDecoderMaxMemory(maxDecoded)}
	if dict != nil {
		opts = append(opts, zstd.WithDecoderDictRaw(0, dict))
	}
	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(in, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrDecode, err)
	}
	return out, nil
}

func clampLevel(level int) int {
	if level < minCompressionLevel {
		return minCompressionLevel
	}
	if level > maxCompressionLevel {
		return maxCompressionLevel
	}
	return level
}
