package seed

import "errors"

// ErrInvalidConfig is returned for negative record counts.
var ErrInvalidConfig = errors.New("invalid seed config")
