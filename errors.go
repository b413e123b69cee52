package mdz

import "errors"

var (
	ErrUnrecognizedFormat = errors.New("mdz: unrecognized bundle encoding")
	ErrDecode             = errors.New("mdz: decode failed")
	ErrLimitExceeded      = errors.New("mdz: limit exceeded")
	ErrInvalidPath        = errors.New("mdz: invalid bundle path")
	ErrUnknownMethod      = errors.New("mdz: unknown compression method")
)
