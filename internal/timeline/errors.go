package timeline

import "errors"

// ErrInvalidDate is returned by the decoding helpers for malformed dates.
// Layout never fails on bad dates; it skips the affected element.
var ErrInvalidDate = errors.New("invalid date")
