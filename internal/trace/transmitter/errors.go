package transmitter

import "fmt"

// TransportError wraps any failure to deliver the span: DNS, refused connections, TLS, timeouts.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send trace to %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
