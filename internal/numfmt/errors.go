package numfmt

import "errors"

var (
	// ErrParseRejected is returned when input is not numeric after its
	// decoration has been stripped.
	ErrParseRejected = errors.New("input is not a number")

	// ErrOverflow is returned for values that cannot be rendered in fixed
	// notation.
	ErrOverflow = errors.New("value out of formattable range")

	// ErrInvalidConfig marks a Format Configuration that can never be valid.
	ErrInvalidConfig = errors.New("invalid format configuration")
)

// IsRejected reports whether err means the input could not be used as a number.
func IsRejected(err error) bool {
	return errors.Is(err, ErrParseRejected) || errors.Is(err, ErrOverflow)
}
