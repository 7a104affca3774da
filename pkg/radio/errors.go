// ABOUTME: Session error taxonomy
// ABOUTME: Every terminal failure of a playback session is an *Error
package radio

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a session failure
type Kind int

const (
	ConnectionError Kind = iota + 1
	ProtocolError
	StreamReadError
	StreamEndedError
	DecoderInitError
	DecodeError
	FormatUnsupportedError
	SinkError
	InvalidLocatorError
)

var kindNames = map[Kind]string{
	ConnectionError:        "connection",
	ProtocolError:          "protocol",
	StreamReadError:        "stream_read",
	StreamEndedError:       "stream_ended",
	DecoderInitError:       "decoder_init",
	DecodeError:            "decode",
	FormatUnsupportedError: "format_unsupported",
	SinkError:              "sink",
	InvalidLocatorError:    "invalid_locator",
}

// String returns a short label, also used as a metrics label value
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds lists every error kind
func Kinds() []Kind {
	return []Kind{
		ConnectionError, ProtocolError, StreamReadError, StreamEndedError,
		DecoderInitError, DecodeError, FormatUnsupportedError, SinkError,
		InvalidLocatorError,
	}
}

// Error is a terminal session error. Its message is what the observer receives.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func newError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a session error, or 0 if err is not one
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
