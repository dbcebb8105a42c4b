package ops

import "errors"

// ErrNotImplemented is returned by nodes whose derivative is not available.
var ErrNotImplemented = errors.New("not implemented")
