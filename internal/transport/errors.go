package transport

// TransportError is a custom error type for transport errors
type TransportError string

// Error implements the error interface
func (e TransportError) Error() string {
	return string(e)
}

const (
	ErrNilConfig  TransportError = "config cannot be nil"
	ErrNilMessage TransportError = "message cannot be nil"
	ErrNilHandler TransportError = "handler cannot be nil"
	ErrClosed     TransportError = "transport is closed"
	ErrNilClient  TransportError = "client cannot be nil"
	ErrMissingURL TransportError = "url cannot be empty"
)
