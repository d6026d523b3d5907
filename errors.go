package httpauth

import "errors"

// traceID names this package to github.com/jimrobinson/trace, the
// same low-ceremony on/off tracing facility the teacher library uses.
var traceID = "github.com/go-httpauth/httpauth"

// ErrAuthRequired is returned when origin-server authentication failed
// after challenge processing was exhausted.
var ErrAuthRequired = errors.New("httpauth: server was not authenticated correctly")

// ErrProxyAuthRequired is the forward-proxy analogue of ErrAuthRequired.
var ErrProxyAuthRequired = errors.New("httpauth: proxy server was not authenticated correctly")

// ErrAuthProtocol is returned when a server's Authentication-Info
// header failed verification; the session is not retried automatically.
var ErrAuthProtocol = errors.New("httpauth: authentication-info verification failed")

// ErrNoCredentials is returned by a CredentialSource to decline a
// challenge without failing the whole response.
var ErrNoCredentials = errors.New("httpauth: no credentials available")

// ClassError carries the class-specific user message and the
// underlying cause, if any. With no cause it unwraps to the class's
// ErrAuthRequired/ErrProxyAuthRequired.
type ClassError struct {
	Class   *Class
	Message string
	Err     error
}

func (e *ClassError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ClassError) Unwrap() error {
	if e.Err == nil && e.Class != nil {
		return e.Class.failErr
	}
	return e.Err
}

func newClassError(c *Class, cause error) *ClassError {
	return &ClassError{Class: c, Message: c.failMessage, Err: cause}
}
