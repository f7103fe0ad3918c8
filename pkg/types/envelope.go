package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// MessageEnvelope is the bare {message} body of the password endpoints.
type MessageEnvelope struct {
	Message string `json:"message"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
