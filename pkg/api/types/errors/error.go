// Package errors defines error responses of grammard.
//
// Each helper returns *echo.HTTPError, which echo renders as
//
//	{"message": {"reason": "...", "advice": "..."}}
//
// The cause is kept as the Internal error of HTTPError. It is logged, but never responded.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the body of error responses.
type Response struct {
	Message Message `json:"message"`
}

// MarshalJSON makes echo's default error handler write Response as is.
func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	return json.Marshal(plain(r))
}

type Message struct {
	// Reason tells what happened, in short.
	Reason string `json:"reason"`

	// Advice tells what the client can do. Optional.
	Advice string `json:"advice,omitempty"`
}

type Option func(*Message) *Message

func WithAdvice(advice string) Option {
	return func(m *Message) *Message {
		m.Advice = advice
		return m
	}
}

// New builds an error response.
//
// # Args
//
// - code: http status code
//
// - reason: Message.Reason
//
// - cause: the internal error. It can be nil.
//
// - options: modifies Message
func New(code int, reason string, cause error, options ...Option) *echo.HTTPError {
	msg := &Message{Reason: reason}
	for _, opt := range options {
		msg = opt(msg)
	}
	herr := echo.NewHTTPError(code, Response{Message: *msg})
	if cause != nil {
		herr = herr.SetInternal(cause)
	}
	return herr
}

func BadRequest(advice string, err error) *echo.HTTPError {
	return New(http.StatusBadRequest, "bad request", err, WithAdvice(advice))
}

// Unauthorized is for requests without valid credentials.
//
// Handlers returning this should also set "WWW-Authenticate: Bearer".
func Unauthorized(advice string, err error) *echo.HTTPError {
	return New(http.StatusUnauthorized, "unauthorized", err, WithAdvice(advice))
}

func Forbidden(advice string) *echo.HTTPError {
	return New(http.StatusForbidden, "forbidden", nil, WithAdvice(advice))
}

func NotFound() *echo.HTTPError {
	return New(http.StatusNotFound, "not found", nil)
}

func Conflict(reason string, options ...Option) *echo.HTTPError {
	return New(http.StatusConflict, reason, nil, options...)
}

func TooManyRequests() *echo.HTTPError {
	return New(
		http.StatusTooManyRequests, "too many requests", nil,
		WithAdvice("slow down, and retry later."),
	)
}

func InternalServerError(err error) *echo.HTTPError {
	return New(http.StatusInternalServerError, "unexpected error", err)
}

func ServiceUnavailable(advice string, err error) *echo.HTTPError {
	return New(
		http.StatusServiceUnavailable, "service unavailable temporarily", err,
		WithAdvice(advice),
	)
}
