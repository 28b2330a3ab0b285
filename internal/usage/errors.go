package usage

import "errors"

// ErrInvalidRecord indicates a usage record without a provider.
var ErrInvalidRecord = errors.New("invalid usage record")
