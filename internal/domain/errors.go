package domain

import (
	"errors"
	"fmt"
	"maps"

	"git.appkode.ru/pub/go/failure"
)

// Source tells who has to act to resolve an error.
type Source string

const (
	// SourceMarket is a transient or provider-side problem.
	SourceMarket Source = "market"
	// SourceOwner needs the bot operator (funds, pending withdrawals).
	SourceOwner Source = "owner"
	// SourceUser needs the end customer (trade link, bans).
	SourceUser Source = "user"
)

func (s Source) String() string {
	return string(s)
}

// Error is a classified domain failure.
type Error struct {
	Code    failure.ErrorCode
	Source  Source
	Message string
	Context map[string]any
	cause   error
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// With attaches a context value and returns the same error.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Value returns a context value.
func (e *Error) Value(key string) (any, bool) {
	v, ok := e.Context[key]
	return v, ok
}

// Clone returns a copy with its own context map.
func (e *Error) Clone() *Error {
	c := *e
	c.Context = maps.Clone(e.Context)
	return &c
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, source Source, message string) *Error {
	return &Error{
		Code:    code,
		Source:  source,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, source Source, message string) *Error {
	return &Error{
		Code:    code,
		Source:  source,
		Message: message,
		cause:   err,
	}
}

// AsError extracts a domain error from the chain.
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// GetCode извлекает код ошибки, если это доменная ошибка.
func GetCode(err error) (failure.ErrorCode, bool) {
	if domainErr, ok := AsError(err); ok {
		return domainErr.Code, true
	}
	return "", false
}

// GetSource returns who must act on err.
func GetSource(err error) (Source, bool) {
	if domainErr, ok := AsError(err); ok {
		return domainErr.Source, true
	}
	return "", false
}

// IsKind reports whether err is a domain error with the given code.
func IsKind(err error, code failure.ErrorCode) bool {
	c, ok := GetCode(err)
	return ok && c == code
}
