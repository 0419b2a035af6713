package resp

import "fmt"

// ServerError is an error reply ("-<message>") from the server.
// The protocol state is intact; the command was refused.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server error: " + e.Message
}

// ParseError is returned when a reply cannot be decoded.
// The stream position is unknown afterwards and the connection should be closed.
type ParseError struct {
	Message string
	Err     error // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Err)
	}
	return "parse error: " + e.Message
}

// Unwrap returns the underlying error for error chain inspection
func (e *ParseError) Unwrap() error {
	return e.Err
}
