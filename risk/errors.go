package risk

import "errors"

var (
	ErrBadSizeThreshold = errors.New("size threshold must be > 0")
	ErrBadLossThreshold = errors.New("loss threshold must be < 0")
)
