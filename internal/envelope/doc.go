// Package envelope unwraps the backend's fixed JSON response envelope.
//
// # Wire Format
//
// Every API response has the same outer shape:
//
//	{
//	  "status_code": 200,
//	  "status_msg": "OK",
//	  "result": {
//	    "code": 0,
//	    "message": "Success",
//	    "data": {...}
//	  }
//	}
//
// # Decoding
//
// Decode classifies a raw body in a single pass, stopping at the first
// failure:
//
//  1. Body must be a JSON object, else *FormatError.
//  2. status_code (falling back to the HTTP status, then -1) outside 200-299
//     yields *TransportError carrying status_msg or "Unknown error".
//  3. result must be an object, else *FormatError.
//  4. result.code defaults to 0 and result.message to "Success".
//  5. A non-zero result.code yields *BusinessError.
//  6. result.data must be present and non-null, else *FormatError.
//  7. result.data is decoded into T; any mismatch is a *FormatError that
//     wraps the underlying decode error.
//
// DecodeUntyped follows the same steps but returns result.data as a
// jsonvalue.Object and rejects any non-object payload.
//
// # Notification Hook
//
// A Notifier passed with WithNotifier observes error codes exactly once per
// call, before Decode returns:
//
//   - HTTP status outside 200-299: (httpStatus, status_msg)
//   - otherwise, when result.code is present: (result.code, result.message)
//   - body that is not a JSON object: (-2, "Failed to parse response JSON")
//
// The hook is fire-and-forget. A panic inside it is recovered and logged and
// never changes the decode result.
//
// # Concurrency
//
// The package holds no mutable state. Decode may be called from any number of
// goroutines; the notifier is responsible for its own synchronization.
//
// # Example
//
//	type User struct {
//		ID   int    `json:"id"`
//		Name string `json:"name"`
//	}
//
//	resp, err := envelope.Decode[User](body, status, envelope.WithNotifier(dispatcher))
//	var business *envelope.BusinessError
//	switch {
//	case errors.As(err, &business):
//		// show localized message for business.Code
//	case err != nil:
//		return err
//	}
//	fmt.Println(resp.Data.Name)
package envelope
