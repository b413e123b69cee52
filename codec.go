package mdz

import (
	"fmt"
	"strings"
)

// backend is one bundle encoding: it can serialize a tree to bytes
// and try to deserialize bytes back into a tree.
type backend interface {
	method() CompressionMethod
	encode(t *Tree, cfg config) ([]byte, error)
	decode(data []byte, cfg config) (*Tree, error)
}

// decodeOrder lists the backends in the order Load tries them. The
// format carries no tag, so detection is sequential trial; the order
// is part of the format contract.
var decodeOrder = []backend{standardBackend{}, secureBackend{}}

func backendFor(m CompressionMethod) (backend, error) {
	for _, be := range decodeOrder {
		if be.method() == m {
			return be, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, uint8(m))
}

// decodeBundle tries every backend against data and returns the tree
// produced by the first one that succeeds, together with its method.
// If all backends fail, the error names every underlying failure.
func decodeBundle(data []byte, cfg config) (*Tree, CompressionMethod, error) {
	var failures []string
	for _, be := range decodeOrder {
		t, err := be.decode(data, cfg)
		if err == nil {
			return t, be.method(), nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", be.method(), err))
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrUnrecognizedFormat, strings.Join(failures, "; "))
}
