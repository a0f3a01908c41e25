package envelope

import (
	"fmt"

	"github.com/cellgit/BearBasic/internal/jsonvalue"
)

// Wire field names of the response envelope.
const (
	fieldStatusCode = "status_code"
	fieldStatusMsg  = "status_msg"
	fieldResult     = "result"
	fieldCode       = "code"
	fieldMessage    = "message"
	fieldData       = "data"
)

const (
	defaultStatusMessage   = "Unknown error"
	defaultBusinessMessage = "Success"

	// MissingStatusCode is used when neither status_code nor an HTTP status is available.
	MissingStatusCode = -1
	// UnparseableCode is reported to the notifier when the body is not a JSON object.
	UnparseableCode    = -2
	unparseableMessage = "Failed to parse response JSON"
)

// Response is a successfully unwrapped envelope. Code is always 0.
type Response[T any] struct {
	Code    int
	Message string
	Data    T
}

// IsSuccessStatus reports whether code lies in the 200-299 range.
func IsSuccessStatus(code int) bool {
	return code >= 200 && code <= 299
}

// Decode unwraps body and decodes result.data into T with encoding/json.
func Decode[T any](body []byte, httpStatus int, opts ...Option) (Response[T], error) {
	return DecodeWith[T](body, httpStatus, JSONShape[T]{}, opts...)
}

// DecodeWith unwraps body and decodes result.data with shape.
func DecodeWith[T any](body []byte, httpStatus int, shape Shape[T], opts ...Option) (Response[T], error) {
	env, err := unwrap(body, httpStatus, newOptions(opts))
	if err != nil {
		return Response[T]{}, err
	}

	data, ok := env.result.Get(fieldData)
	if !ok || data.IsNull() {
		return Response[T]{}, formatError("result.data is missing", nil)
	}
	raw, err := data.MarshalJSON()
	if err != nil {
		return Response[T]{}, formatError("re-encode result.data", err)
	}
	if shape == nil {
		shape = JSONShape[T]{}
	}
	decoded, err := shape.Decode(raw)
	if err != nil {
		return Response[T]{}, formatError("decode result.data", err)
	}
	return Response[T]{Code: 0, Message: env.message, Data: decoded}, nil
}

// DecodeUntyped unwraps body and returns result.data as a raw JSON object.
// Any other JSON kind in result.data is a FormatError.
func DecodeUntyped(body []byte, httpStatus int, opts ...Option) (Response[jsonvalue.Object], error) {
	env, err := unwrap(body, httpStatus, newOptions(opts))
	if err != nil {
		return Response[jsonvalue.Object]{}, err
	}

	data, ok := env.result.Get(fieldData)
	if !ok {
		return Response[jsonvalue.Object]{}, formatError("result.data is missing", nil)
	}
	obj, ok := data.AsObject()
	if !ok {
		return Response[jsonvalue.Object]{}, formatError(fmt.Sprintf("result.data is %s, want object", data.Kind()), nil)
	}
	return Response[jsonvalue.Object]{Code: 0, Message: env.message, Data: obj}, nil
}

type unwrapped struct {
	message string
	result  jsonvalue.Object
}

// unwrap parses the envelope, fires the notifier once and classifies the
// transport and business status. It stops short of touching result.data.
func unwrap(body []byte, httpStatus int, o options) (unwrapped, error) {
	root, err := jsonvalue.Parse(body)
	obj, isObject := root.AsObject()
	if err != nil || !isObject {
		o.notify(UnparseableCode, unparseableMessage)
		return unwrapped{}, formatError("cannot parse response JSON", err)
	}

	statusMessage := defaultStatusMessage
	if msg, ok := stringField(obj, fieldStatusMsg); ok {
		statusMessage = msg
	}

	result, hasResult := objectField(obj, fieldResult)
	code, hasCode, codeValid := 0, false, true
	message := defaultBusinessMessage
	if hasResult {
		code, hasCode, codeValid = intField(result, fieldCode)
		if msg, ok := stringField(result, fieldMessage); ok {
			message = msg
		}
	}

	switch {
	case !IsSuccessStatus(httpStatus):
		o.notify(httpStatus, statusMessage)
	case hasCode && codeValid:
		o.notify(code, message)
	}

	statusCode, ok := resolveStatusCode(obj, httpStatus)
	if !ok {
		return unwrapped{}, formatError("status_code is not an integer", nil)
	}
	if !IsSuccessStatus(statusCode) {
		return unwrapped{}, &TransportError{Code: statusCode, Message: statusMessage}
	}
	if !hasResult {
		return unwrapped{}, formatError("result is missing or not an object", nil)
	}
	if !codeValid {
		return unwrapped{}, formatError("result.code is not an integer", nil)
	}
	if code != 0 {
		return unwrapped{}, &BusinessError{Code: code, Message: message}
	}
	return unwrapped{message: message, result: result}, nil
}

// resolveStatusCode prefers the envelope's status_code, then the HTTP status,
// then MissingStatusCode. It reports false when status_code is present but
// not an integer.
func resolveStatusCode(obj jsonvalue.Object, httpStatus int) (int, bool) {
	code, present, valid := intField(obj, fieldStatusCode)
	switch {
	case !valid:
		return 0, false
	case present:
		return code, true
	case httpStatus > 0:
		return httpStatus, true
	}
	return MissingStatusCode, true
}

// intField reads an integral number. A missing or null key is absent; any
// other non-integer value is present but invalid.
func intField(obj jsonvalue.Object, key string) (value int, present, valid bool) {
	v, ok := obj.Get(key)
	if !ok || v.IsNull() {
		return 0, false, true
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, true, false
	}
	return int(i), true, true
}

func stringField(obj jsonvalue.Object, key string) (string, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func objectField(obj jsonvalue.Object, key string) (jsonvalue.Object, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return nil, false
	}
	return v.AsObject()
}
