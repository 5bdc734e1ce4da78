package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ledgerdash/internal/cache"
	"ledgerdash/internal/calendar"
	"ledgerdash/internal/classify"
	"ledgerdash/internal/core"
	"ledgerdash/internal/currency"
)

// ErrMissingViewer is returned when a dashboard is requested without viewer.
var ErrMissingViewer = errors.New("dashboard viewer is required")

// snapshotResolution is the clock granularity of the snapshot cache key.
// Requests for the same input within one such window share a snapshot.
const snapshotResolution = time.Minute

// DashboardInput is everything needed to derive one viewer's dashboard.
type DashboardInput struct {
	Viewer       core.UserID        `json:"viewer"`
	Transactions []core.Transaction `json:"transactions"`
	Loans        []core.Loan        `json:"loans,omitempty"`
	Goal         *core.SavingsGoal  `json:"goal,omitempty"`
	Now          time.Time          `json:"now"`
	Location     *time.Location     `json:"-"`
	Currency     currency.Code      `json:"currency"`
}

// LoanView pairs a loan with the viewer's side and its derived metrics.
type LoanView struct {
	Loan    core.Loan   `json:"loan"`
	Role    LoanRole    `json:"role"`
	Metrics LoanMetrics `json:"metrics"`
}

// Snapshot is the derived dashboard. Every amount is in canonical units
// except Formatted, which is rendered in the display currency.
type Snapshot struct {
	Viewer       core.UserID                 `json:"viewer"`
	Month        string                      `json:"month"`
	GeneratedAt  time.Time                   `json:"generated_at"`
	Days         []calendar.Day              `json:"days"`
	Summaries    map[classify.Filter]Summary `json:"summaries"`
	Loans        []LoanView                  `json:"loans"`
	Position     core.Position               `json:"position"`
	LoanTotals   LoanTotals                  `json:"loan_totals"`
	Goal         *GoalMetrics                `json:"goal,omitempty"`
	Projected    int                         `json:"projected"`
	Unrecognized []string                    `json:"unrecognized_types,omitempty"`
	Formatted    Formatted                   `json:"formatted"`
}

// Formatted holds display strings for the headline figures.
type Formatted struct {
	Currency      currency.Code     `json:"currency"`
	Symbol        string            `json:"symbol"`
	Income        string            `json:"income"`
	Expenses      string            `json:"expenses"`
	Net           string            `json:"net"`
	Lent          string            `json:"lent"`
	Borrowed      string            `json:"borrowed"`
	NetPosition   string            `json:"net_position"`
	GoalRemaining string            `json:"goal_remaining,omitempty"`
	Categories    map[string]string `json:"categories"`
}

// Dashboard composes the classification, calendar, loan and savings
// derivations and memoises the result by input content.
type Dashboard struct {
	table *currency.Table
	cache cache.Cache[*Snapshot]
	now   func() time.Time
}

// NewDashboard creates a dashboard service. snapshots may be nil to disable
// memoisation.
func NewDashboard(table *currency.Table, snapshots cache.Cache[*Snapshot]) *Dashboard {
	if table == nil {
		table = currency.Default()
	}
	return &Dashboard{table: table, cache: snapshots, now: time.Now}
}

// Build derives the snapshot for in. Identical inputs whose Now falls in the
// same minute return the cached snapshot, which callers must treat as
// read-only. A zero Now means the dashboard clock.
func (d *Dashboard) Build(in DashboardInput) (*Snapshot, error) {
	if in.Viewer == "" {
		return nil, ErrMissingViewer
	}
	if in.Currency == "" {
		in.Currency = d.table.Base()
	}
	f, err := currency.NewFormatter(d.table, in.Currency)
	if err != nil {
		return nil, err
	}
	for i, l := range in.Loans {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("loan %d (%s): %w", i, l.ID, err)
		}
	}
	if in.Goal != nil {
		if err := in.Goal.Validate(); err != nil {
			return nil, fmt.Errorf("savings goal: %w", err)
		}
	}
	if in.Now.IsZero() {
		in.Now = d.now()
	}
	if in.Location == nil {
		in.Location = time.Local
	}

	var key string
	if d.cache != nil {
		key, err = inputKey(in)
		if err != nil {
			return nil, err
		}
		if snap, ok := d.cache.Get(key); ok {
			return snap, nil
		}
	}

	snap := d.derive(in, f)
	if d.cache != nil {
		d.cache.Set(key, snap)
	}
	return snap, nil
}

func (d *Dashboard) derive(in DashboardInput, f currency.Formatter) *Snapshot {
	now := in.Now.In(in.Location)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, in.Location)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	onCalendar := append([]core.Transaction(nil), in.Transactions...)
	projected := 0
	for _, tx := range in.Transactions {
		occ := ProjectUpcoming(tx, now, monthEnd)
		projected += len(occ)
		onCalendar = append(onCalendar, occ...)
	}

	snap := &Snapshot{
		Viewer:      in.Viewer,
		Month:       monthStart.Format("2006-01"),
		GeneratedAt: in.Now,
		Days:        calendar.Month(now.Year(), now.Month(), in.Location, calendar.BucketByDay(onCalendar, in.Location), in.Viewer),
		Summaries:   make(map[classify.Filter]Summary, 3),
		Position:    NetPosition(in.Loans, in.Viewer),
		LoanTotals:  CountLoans(in.Loans, in.Now),
		Projected:   projected,
	}
	for _, filter := range []classify.Filter{classify.FilterAll, classify.FilterIncome, classify.FilterExpenses} {
		snap.Summaries[filter] = Summarize(in.Transactions, in.Viewer, filter)
	}
	for _, l := range in.Loans {
		snap.Loans = append(snap.Loans, LoanView{
			Loan:    l,
			Role:    RoleOf(l, in.Viewer),
			Metrics: ComputeLoanMetrics(l, in.Now),
		})
	}
	if in.Goal != nil {
		g := ComputeGoalMetrics(*in.Goal)
		snap.Goal = &g
	}
	snap.Unrecognized = UnrecognizedTypes(in.Transactions)
	snap.Formatted = format(snap, f)
	return snap
}

// format is the last step: display conversion happens only here.
func format(snap *Snapshot, f currency.Formatter) Formatted {
	all := snap.Summaries[classify.FilterAll]
	out := Formatted{
		Currency:    f.Display(),
		Symbol:      f.Table().Symbol(f.Display()),
		Income:      f.Format(all.Income),
		Expenses:    f.Format(all.Expenses),
		Net:         f.Format(all.Net),
		Lent:        f.Format(snap.Position.Lent),
		Borrowed:    f.Format(snap.Position.Borrowed),
		NetPosition: f.Format(snap.Position.Net),
		Categories:  make(map[string]string, len(all.ByCategory)),
	}
	for _, c := range all.ByCategory {
		out.Categories[c.Name] = f.Format(c.Amount)
	}
	if snap.Goal != nil {
		out.GoalRemaining = f.Format(snap.Goal.Remaining)
	}
	return out
}

// inputKey hashes the input content, including the location name, into a
// cache key. Now enters the key truncated to snapshotResolution.
func inputKey(in DashboardInput) (string, error) {
	b, err := json.Marshal(struct {
		DashboardInput
		Now      time.Time `json:"now"`
		Location string    `json:"location"`
	}{in, in.Now.Truncate(snapshotResolution), in.Location.String()})
	if err != nil {
		return "", fmt.Errorf("hash dashboard input: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
