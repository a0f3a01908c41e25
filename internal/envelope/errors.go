package envelope

import (
	"errors"
	"fmt"
)

// ErrFormat matches every *FormatError via errors.Is.
var ErrFormat = errors.New("malformed response envelope")

// FormatError reports a response that does not match the envelope contract:
// unparseable JSON, a missing result object, missing data, or data that does
// not fit the requested shape.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("envelope format: %s: %v", e.Reason, e.Err)
	}
	return "envelope format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is lets callers test with errors.Is(err, ErrFormat).
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// TransportError reports an envelope status_code outside 200-299.
type TransportError struct {
	Code    int
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport status %d: %s", e.Code, e.Message)
}

// BusinessError reports a non-zero result.code.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("business error %d: %s", e.Code, e.Message)
}

// CodeOf extracts the numeric code and message carried by a TransportError or
// BusinessError anywhere in err's chain.
func CodeOf(err error) (int, string, bool) {
	var business *BusinessError
	if errors.As(err, &business) {
		return business.Code, business.Message, true
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return transport.Code, transport.Message, true
	}
	return 0, "", false
}

func formatError(reason string, err error) *FormatError {
	return &FormatError{Reason: reason, Err: err}
}
