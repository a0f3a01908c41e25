// Package client provides the HTTP client for the Bear API.
//
// # Overview
//
// A Client resolves request.Target values against the configured base URL,
// attaches the identity and platform headers the backend expects, and hands
// the raw response to the envelope decoder together with the SDK's
// notification hook.
//
// # Client Usage
//
// Build a client from configuration and a store:
//
//	c, err := client.FromConfig(ctx, cfg, store, dispatcher, logger, nil)
//	if err != nil {
//		return err
//	}
//
//	resp, err := client.Fetch[Profile](ctx, c, request.Get("/user/profile"))
//	if err != nil {
//		var be *envelope.BusinessError
//		if errors.As(err, &be) {
//			// be.Code is the backend's business code
//		}
//		return err
//	}
//
// # Headers
//
// Every request carries appId, uuid, idfv and idfa (the zero uuid when none
// is stored), platform, appVersion, bundleId and systemVersion. The stored
// token is sent verbatim as Authorization unless the target sets SkipAuth.
// Headers supplied on the target take precedence.
//
// # Error Handling
//
// Transport failures are returned wrapped as "execute request: ..." and never
// reach the notification hook, since there is no envelope to inspect. Every
// other outcome, including HTTP 4xx and 5xx responses, is classified by the
// envelope package.
package client
