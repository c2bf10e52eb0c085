package models

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal extraction failure.
type Kind string

const (
	KindNotFoundIdentifier Kind = "not_found_identifier"
	KindUnsupportedSite    Kind = "unsupported_site"
	KindNetworkFailure     Kind = "network_failure"
	KindAntiBot            Kind = "anti_bot"
	KindUpstreamStatus     Kind = "upstream_status"
	KindUnknown            Kind = "unknown"
)

var (
	ErrIdentifierNotFound = errors.New("no product identifier found in URL")
	ErrUnsupportedSite    = errors.New("unsupported marketplace site")
	ErrNetworkFailure     = errors.New("network failure")
	ErrAntiBot            = errors.New("blocked by anti-bot challenge")
	ErrUpstreamStatus     = errors.New("unexpected upstream status")
)

// Error is returned by the orchestrator once a call is terminally failed.
type Error struct {
	Kind     Kind
	URL      string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("extraction failed for %s after %d attempt(s) [%s]: %v", e.URL, e.Attempts, e.Kind, e.Err)
	}
	return fmt.Sprintf("extraction failed for %s [%s]: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed.
func (k Kind) Retryable() bool {
	switch k {
	case KindNetworkFailure, KindAntiBot, KindUpstreamStatus:
		return true
	default:
		return false
	}
}

// KindOf classifies err. Wrapped sentinels are recognised at any depth.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var extractErr *Error
	if errors.As(err, &extractErr) && extractErr.Kind != "" {
		return extractErr.Kind
	}

	switch {
	case errors.Is(err, ErrIdentifierNotFound):
		return KindNotFoundIdentifier
	case errors.Is(err, ErrUnsupportedSite):
		return KindUnsupportedSite
	case errors.Is(err, ErrNetworkFailure):
		return KindNetworkFailure
	case errors.Is(err, ErrAntiBot):
		return KindAntiBot
	case errors.Is(err, ErrUpstreamStatus):
		return KindUpstreamStatus
	default:
		return KindUnknown
	}
}
