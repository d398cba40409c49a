package callback

// InvalidCallbackObjectError reports a malformed spec at registration.
type InvalidCallbackObjectError struct {
	Reason string
}

func (e *InvalidCallbackObjectError) Error() string {
	if e.Reason == "" {
		return "Invalid callback object"
	}
	return "Invalid callback object: " + e.Reason
}

// InvalidCallbackHeadersError reports request headers that cannot drive a
// delegated call. Message is returned to the client as is.
type InvalidCallbackHeadersError struct {
	Message string
}

func (e *InvalidCallbackHeadersError) Error() string { return e.Message }
