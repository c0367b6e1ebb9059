package models

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies why a quote fetch failed.
type FetchErrorKind string

const (
	FetchUnconfigured FetchErrorKind = "unconfigured" // no API credential
	FetchThrottled    FetchErrorKind = "throttled"    // provider signalled quota exhaustion
	FetchTransport    FetchErrorKind = "transport"    // network or HTTP failure
	FetchMalformed    FetchErrorKind = "malformed"    // unexpected response shape
)

// FetchError is returned by quote fetchers for every failed fetch.
type FetchError struct {
	Kind    FetchErrorKind
	Symbol  string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Symbol == "" {
		return fmt.Sprintf("quote fetch %s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("quote fetch %s for %s: %s", e.Kind, e.Symbol, msg)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchErrorKindOf returns the kind of a FetchError anywhere in err's chain,
// or FetchTransport for any other non-nil error.
func FetchErrorKindOf(err error) FetchErrorKind {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return FetchTransport
}

// IsFetchKind reports whether err is a FetchError of the given kind.
func IsFetchKind(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}
