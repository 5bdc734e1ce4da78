package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ledgerdash/internal/classify"
	"ledgerdash/internal/core"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantAny bool
	}{
		{"valid", `{"amount":"12.50","currency":"EUR"}`, nil, false},
		{"empty", ``, ErrEmptyBody, false},
		{"malformed", `{"amount":`, nil, true},
		{"trailing", `{"amount":"1"} {"amount":"2"}`, nil, true},
		{"too large", `{"amount":"` + strings.Repeat("9", maxBodyBytes) + `"}`, ErrBodyTooLarge, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(tt.body))
			var dst ConvertRequest
			err := DecodeJSON(httptest.NewRecorder(), r, &dst)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.wantAny:
				if err == nil {
					t.Error("expected an error")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if dst.Amount != "12.50" || dst.Currency != "EUR" {
					t.Errorf("decoded %+v", dst)
				}
			}
		})
	}
}

func TestRecordsRequestValidate(t *testing.T) {
	ok := RecordsRequest{Viewer: "alice", Transactions: []core.Transaction{{ID: "t1", Type: "topup", Amount: core.Cents(100)}}}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := (RecordsRequest{Viewer: "  "}).Validate(); err == nil {
		t.Error("blank viewer should be rejected")
	}
	neg := RecordsRequest{Viewer: "alice", Transactions: []core.Transaction{{ID: "t2", Amount: core.Cents(-5)}}}
	if err := neg.Validate(); !errors.Is(err, core.ErrNegativeAmount) {
		t.Errorf("Validate() = %v, want ErrNegativeAmount", err)
	}
}

func TestParseFilterParam(t *testing.T) {
	got, err := ParseFilterParam(url.Values{})
	if err != nil || got != classify.FilterAll {
		t.Errorf("empty filter = %q, %v", got, err)
	}
	got, err = ParseFilterParam(url.Values{"filter": {"Expense"}})
	if err != nil || got != classify.FilterExpenses {
		t.Errorf("expense filter = %q, %v", got, err)
	}
	if _, err := ParseFilterParam(url.Values{"filter": {"loans"}}); err == nil {
		t.Error("unknown filter should fail")
	}
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("", time.UTC)
	if err != nil || loc != time.UTC {
		t.Errorf("fallback = %v, %v", loc, err)
	}
	if _, err := ParseLocation("Mars/Olympus", time.UTC); err == nil {
		t.Error("unknown zone should fail")
	}
}

func TestPathUser(t *testing.T) {
	mux := http.NewServeMux()
	var got core.UserID
	var gotErr error
	mux.HandleFunc("GET /u/{user}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathUser(r)
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/u/%20alice%09", nil))
	if gotErr != nil || got != "alice" {
		t.Errorf("PathUser() = %q, %v", got, gotErr)
	}

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/u/"+strings.Repeat("x", maxUserIDLength+1), nil))
	if !errors.Is(gotErr, ErrInvalidUserID) {
		t.Errorf("long id err = %v", gotErr)
	}
}
