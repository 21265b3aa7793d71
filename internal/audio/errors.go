package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode indicates uploaded bytes could not be decoded as audio.
	ErrDecode = errors.New("audio: cannot decode asset")

	// ErrUnsupportedFormat indicates a container the decoder does not recognise.
	ErrUnsupportedFormat = errors.New("audio: unsupported format")

	// ErrNoAsset indicates play was requested before an asset was decoded.
	ErrNoAsset = errors.New("audio: no decoded asset")

	// ErrSuperseded indicates a load finished after a newer load was started.
	ErrSuperseded = errors.New("audio: load superseded by a newer request")

	// ErrUnknownBackend indicates an output backend name that is not registered.
	ErrUnknownBackend = errors.New("audio: unknown output backend")
)

// DecodeError wraps a decoder failure with the asset name. It matches
// ErrDecode with errors.Is.
type DecodeError struct {
	Name    string
	Wrapped error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDecode, e.Name, e.Wrapped)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Wrapped}
}
