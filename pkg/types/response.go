package types

// SuccessEnvelope wraps every successful console response. Notices carries
// the toasts raised while handling the request, if any.
type SuccessEnvelope struct {
	Data    any `json:"data"`
	Notices any `json:"notices,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error   APIError `json:"error"`
	Notices any      `json:"notices,omitempty"`
}
