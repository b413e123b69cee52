package mdz

// DefaultMaxDecodedSize caps the decompressed payload size on load.
const DefaultMaxDecodedSize uint64 = 4 << 30 // 4 GiB

type config struct {
	level          int
	method         CompressionMethod
	maxDecodedSize uint64
}

func defaultConfig() config {
	return config{
		level:          DefaultCompressionLevel,
		method:         MethodStandard,
		maxDecodedSize: DefaultMaxDecodedSize,
	}
}

// Option configures a Bundle at construction or load time.
type Option func(*config)

// WithCompressionLevel sets the Zstandard compression level used on
// save. Values outside 1-22 are clamped, not rejected.
func WithCompressionLevel(level int) Option {
	return func(c *config) { c.level = clampLevel(level) }
}

// WithMethod selects the encoding used on save. Load ignores it and
// records the detected method instead.
func WithMethod(m CompressionMethod) Option {
	return func(c *config) { c.method = m }
}

// WithMaxDecodedSize bounds the decompressed payload size accepted on
// load, protecting against decompression bombs. Zero restores the
// default.
func WithMaxDecodedSize(n uint64) Option {
	return func(c *config) {
		if n == 0 {
			n = DefaultMaxDecodedSize
		}
		c.maxDecodedSize = n
	}
}
