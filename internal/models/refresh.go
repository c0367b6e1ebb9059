package models

import (
	"fmt"
	"strings"
	"time"
)

// maxListedSymbols bounds how many throttled symbols a notice names.
const maxListedSymbols = 10

// MessageLevel mirrors the categories shown on the dashboard.
type MessageLevel string

const (
	LevelSuccess MessageLevel = "success"
	LevelInfo    MessageLevel = "info"
	LevelWarning MessageLevel = "warning"
	LevelError   MessageLevel = "error"
)

// Message is a user-facing notice.
type Message struct {
	Level MessageLevel `json:"level"`
	Text  string       `json:"text"`
}

// RefreshFailure records one instrument whose price could not be fetched.
type RefreshFailure struct {
	Symbol  string         `json:"symbol"`
	Kind    FetchErrorKind `json:"kind"`
	Message string         `json:"message"`
}

// RefreshSummary is the outcome of one price refresh run.
type RefreshSummary struct {
	Unconfigured bool             `json:"unconfigured"`
	Instruments  int              `json:"instruments"`
	Updated      int              `json:"updated"`
	Failed       int              `json:"failed"`
	Failures     []RefreshFailure `json:"failures,omitempty"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
}

// Throttled returns the symbols that failed because the provider quota was hit.
func (s *RefreshSummary) Throttled() []string {
	var out []string
	for _, f := range s.Failures {
		if f.Kind == FetchThrottled {
			out = append(out, f.Symbol)
		}
	}
	return out
}

// Messages renders the summary as dashboard notices.
func (s *RefreshSummary) Messages() []Message {
	if s.Unconfigured {
		return []Message{{
			Level: LevelError,
			Text:  "Alpha Vantage API key is not configured. Please set the ALPHA_VANTAGE_API_KEY environment variable.",
		}}
	}

	var msgs []Message
	if s.Updated > 0 {
		msgs = append(msgs, Message{
			Level: LevelSuccess,
			Text:  fmt.Sprintf("Successfully updated prices for %d stock(s).", s.Updated),
		})
	}
	if throttled := s.Throttled(); len(throttled) > 0 {
		msgs = append(msgs, Message{
			Level: LevelWarning,
			Text:  fmt.Sprintf("API limit likely reached while fetching %s. Please try again later.", listSymbols(throttled)),
		})
	}
	if s.Failed > 0 {
		msgs = append(msgs, Message{
			Level: LevelWarning,
			Text:  fmt.Sprintf("Failed to update prices for %d stock(s). Check the server logs for details.", s.Failed),
		})
	}
	if s.Updated == 0 && s.Failed == 0 {
		msgs = append(msgs, Message{
			Level: LevelInfo,
			Text:  "No stocks found to update. If you have stocks, check the API key and server logs.",
		})
	}
	return msgs
}

// listSymbols joins symbols, eliding all but the first maxListedSymbols.
func listSymbols(symbols []string) string {
	if len(symbols) <= maxListedSymbols {
		return strings.Join(symbols, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(symbols[:maxListedSymbols], ", "), len(symbols)-maxListedSymbols)
}
