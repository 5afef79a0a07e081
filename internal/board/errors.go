package board

import (
	"fmt"
	"strings"
)

// Kind classifies why a board operation failed.
type Kind int

const (
	// KindNetwork means the service could not be reached at all.
	KindNetwork Kind = iota + 1
	// KindHTTPStatus means the service answered with a status other than 200.
	KindHTTPStatus
	// KindNotFound means a lookup by name matched nothing.
	KindNotFound
	// KindMalformed means a payload could not be decoded.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ConnectionFailureMessage is shown for every network-level failure,
// whichever operation hit it.
const ConnectionFailureMessage = "Could not establish a connection to retrieve any data."

// Failure is the classified reason behind an unusable Result.
type Failure struct {
	Kind Kind

	Method string // KindHTTPStatus
	Status int    // KindHTTPStatus
	Entity string // KindNotFound: "list" or "card"
	Name   string // KindNotFound: the name searched for
	Field  string // KindMalformed: the payload field that failed

	msg string
	err error
}

// Error returns the user-displayable message.
func (f *Failure) Error() string { return f.msg }

// Unwrap returns the underlying transport or decode error, if any.
func (f *Failure) Unwrap() error { return f.err }

func networkFailure(err error) *Failure {
	return &Failure{Kind: KindNetwork, msg: ConnectionFailureMessage, err: err}
}

func statusFailure(method string, status int) *Failure {
	return &Failure{
		Kind:   KindHTTPStatus,
		Method: method,
		Status: status,
		msg:    fmt.Sprintf("Err: Bad %s request. Code %d.", method, status),
	}
}

func notFound(entity, name, msg string) *Failure {
	return &Failure{Kind: KindNotFound, Entity: entity, Name: name, msg: sentence(msg)}
}

func malformed(field, msg string, err error) *Failure {
	return &Failure{Kind: KindMalformed, Field: field, msg: sentence(msg), err: err}
}

// sentence makes sure a message ends with a period.
func sentence(msg string) string {
	if strings.HasSuffix(msg, ".") {
		return msg
	}
	return msg + "."
}
