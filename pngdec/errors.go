package pngdec

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a PNG stream was rejected.
type ErrorKind int

const (
	BadSignature ErrorKind = iota
	Truncated
	UnsupportedBitDepth
	UnsupportedColorType
	BadFilterType
	InflateFailure
)

func (k ErrorKind) String() string {
	switch k {
	case BadSignature:
		return "bad signature"
	case Truncated:
		return "truncated"
	case UnsupportedBitDepth:
		return "unsupported bit depth"
	case UnsupportedColorType:
		return "unsupported color type"
	case BadFilterType:
		return "bad filter type"
	case InflateFailure:
		return "inflate failure"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// A FormatError reports that the input is not a PNG this package can decode.
// Value carries the offending bit depth, color type or filter byte for the
// kinds that have one.
type FormatError struct {
	Kind  ErrorKind
	Value int
	Err   error
}

func (e *FormatError) Error() string {
	msg := "png: " + e.Kind.String()
	switch e.Kind {
	case UnsupportedBitDepth, UnsupportedColorType, BadFilterType:
		msg = fmt.Sprintf("%s %d", msg, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is matches any *FormatError of the same kind, so the sentinels below work
// with errors.Is regardless of Value.
func (e *FormatError) Is(target error) bool {
	var t *FormatError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrBadSignature         = &FormatError{Kind: BadSignature}
	ErrTruncated            = &FormatError{Kind: Truncated}
	ErrUnsupportedBitDepth  = &FormatError{Kind: UnsupportedBitDepth}
	ErrUnsupportedColorType = &FormatError{Kind: UnsupportedColorType}
	ErrBadFilterType        = &FormatError{Kind: BadFilterType}
	ErrInflateFailure       = &FormatError{Kind: InflateFailure}

	// ErrImageTooLarge is returned when a Decoder has a pixel limit and the
	// header asks for more.
	ErrImageTooLarge = errors.New("png: image exceeds pixel limit")
)

func truncated(what string) error {
	return &FormatError{Kind: Truncated, Err: errors.New(what)}
}
