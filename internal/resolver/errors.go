package resolver

import "errors"

// ErrNilModule is returned when the input contains a nil view.
var ErrNilModule = errors.New("resolver: nil module view")
