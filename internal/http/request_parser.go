// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// It keeps body limits, query parsing and record validation in one place so
// the handlers stay small.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ledgerdash/internal/classify"
	"ledgerdash/internal/core"
)

// maxBodyBytes bounds a request body. Record batches are the largest payload.
const maxBodyBytes = 4 << 20

// maxUserIDLength bounds user identifiers taken from the path.
const maxUserIDLength = 128

var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrBodyTooLarge  = errors.New("request body too large")
	ErrInvalidUserID = errors.New("invalid user id")
)

// RecordsRequest is the body shared by the dashboard and summary endpoints.
type RecordsRequest struct {
	Viewer       core.UserID        `json:"viewer"`
	Transactions []core.Transaction `json:"transactions"`
	Loans        []core.Loan        `json:"loans,omitempty"`
	Goal         *core.SavingsGoal  `json:"goal,omitempty"`
	Now          *time.Time         `json:"now,omitempty"`
	Timezone     string             `json:"timezone,omitempty"`
	Currency     string             `json:"currency,omitempty"`
}

// Validate rejects requests the derivations cannot interpret. Stored amounts
// are non-negative; polarity comes from the type.
func (req RecordsRequest) Validate() error {
	if strings.TrimSpace(string(req.Viewer)) == "" {
		return errors.New("viewer is required")
	}
	for _, tx := range req.Transactions {
		if tx.Amount.Cents < 0 {
			return fmt.Errorf("transaction %s: %w", tx.ID, core.ErrNegativeAmount)
		}
	}
	return nil
}

// ConvertRequest asks for a conversion between the base currency and another.
type ConvertRequest struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Direction string `json:"direction"`
}

const (
	DirectionFromBase = "from_base"
	DirectionToBase   = "to_base"
)

// PreferenceRequest is the body of a display currency update.
type PreferenceRequest struct {
	Currency string `json:"currency"`
}

// DecodeJSON reads a size-limited JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case errors.As(err, &tooLarge):
			return ErrBodyTooLarge
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// ParseFilterParam reads ?filter=, defaulting to all.
func ParseFilterParam(query url.Values) (classify.Filter, error) {
	return classify.ParseFilter(query.Get("filter"))
}

// ParseLocation loads name, falling back to fallback when name is empty.
func ParseLocation(name string, fallback *time.Location) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", name)
	}
	return loc, nil
}

// PathUser extracts and validates the {user} path value.
func PathUser(r *http.Request) (core.UserID, error) {
	user := sanitizeInput(r.PathValue("user"))
	if user == "" || len(user) > maxUserIDLength {
		return "", ErrInvalidUserID
	}
	return core.UserID(user), nil
}

// sanitizeInput trims whitespace and drops control characters.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s))
}
