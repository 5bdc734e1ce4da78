// Package services derives dashboard aggregates from classified records.
//
// This file implements the Strategy Pattern for recurring transactions. Each
// frequency (daily, weekly, monthly, yearly) has a strategy that computes the
// next occurrence, so recurring records can be projected onto the calendar.

package services

import (
	"fmt"
	"time"

	"ledgerdash/internal/core"
)

const (
	// maxProjected bounds how many occurrences one record may project.
	maxProjected = 400
	// maxSteps bounds how often a strategy without Seek is stepped per record.
	maxSteps = 10000
)

// Recurrence is the strategy interface for stepping a recurring transaction.
type Recurrence interface {
	// Next returns the first occurrence after prev. anchor is the original
	// creation time; calendar-based strategies keep its day of month.
	Next(prev, anchor time.Time) time.Time
}

// Seeker is implemented by strategies that can jump from the anchor to an
// occurrence shortly before a point in time without stepping through every
// occurrence in between. Seek returns anchor itself or an occurrence strictly
// before before.
type Seeker interface {
	Seek(anchor, before time.Time) time.Time
}

// DailyRecurrence repeats every calendar day.
type DailyRecurrence struct{}

func (DailyRecurrence) Next(prev, _ time.Time) time.Time {
	return prev.AddDate(0, 0, 1)
}

func (DailyRecurrence) Seek(anchor, before time.Time) time.Time {
	if n := daysBetween(anchor, before) - 1; n > 0 {
		return anchor.AddDate(0, 0, n)
	}
	return anchor
}

// WeeklyRecurrence repeats every 7 days.
type WeeklyRecurrence struct{}

func (WeeklyRecurrence) Next(prev, _ time.Time) time.Time {
	return prev.AddDate(0, 0, 7)
}

func (WeeklyRecurrence) Seek(anchor, before time.Time) time.Time {
	if n := daysBetween(anchor, before)/7 - 1; n > 0 {
		return anchor.AddDate(0, 0, 7*n)
	}
	return anchor
}

// MonthlyRecurrence repeats on the anchor's day of month, clamped to the last
// day of shorter months.
type MonthlyRecurrence struct{}

func (MonthlyRecurrence) Next(prev, anchor time.Time) time.Time {
	y, m, _ := prev.Date()
	return clampedDate(y, m+1, anchor)
}

func (MonthlyRecurrence) Seek(anchor, before time.Time) time.Time {
	ay, am, _ := anchor.Date()
	by, bm, _ := before.In(anchor.Location()).Date()
	if n := (by-ay)*12 + int(bm-am) - 1; n > 0 {
		return clampedDate(ay, am+time.Month(n), anchor)
	}
	return anchor
}

// YearlyRecurrence repeats on the anchor's month and day, with Feb 29 falling
// back to Feb 28 in common years.
type YearlyRecurrence struct{}

func (YearlyRecurrence) Next(prev, anchor time.Time) time.Time {
	return clampedDate(prev.Year()+1, anchor.Month(), anchor)
}

func (YearlyRecurrence) Seek(anchor, before time.Time) time.Time {
	if n := before.In(anchor.Location()).Year() - anchor.Year() - 1; n > 0 {
		return clampedDate(anchor.Year()+n, anchor.Month(), anchor)
	}
	return anchor
}

// daysBetween counts calendar days from a's date to b's date in a's location.
// It works on Unix seconds so the zero time does not saturate a Duration.
func daysBetween(a, b time.Time) int {
	loc := a.Location()
	ay, am, ad := a.Date()
	by, bm, bd := b.In(loc).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Unix()
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC).Unix()
	return int((db - da) / 86400)
}

func clampedDate(year int, month time.Month, anchor time.Time) time.Time {
	loc := anchor.Location()
	// Normalise month overflow (13 -> January next year).
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := anchor.Day()
	if day > lastDay {
		day = lastDay
	}
	h, mi, s := anchor.Clock()
	return time.Date(first.Year(), first.Month(), day, h, mi, s, anchor.Nanosecond(), loc)
}

// recurrences maps repetition types to their strategies.
var recurrences = map[core.RepetitionTypes]Recurrence{
	core.Daily:   DailyRecurrence{},
	core.Weekly:  WeeklyRecurrence{},
	core.Monthly: MonthlyRecurrence{},
	core.Yearly:  YearlyRecurrence{},
}

// GetRecurrence returns the strategy for a repetition type.
func GetRecurrence(frequency core.RepetitionTypes) (Recurrence, error) {
	r, ok := recurrences[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown repetition type: %s", frequency)
	}
	return r, nil
}

// RegisterRecurrence registers a strategy for a new repetition type.
func RegisterRecurrence(frequency core.RepetitionTypes, r Recurrence) {
	recurrences[frequency] = r
}

// ProjectUpcoming returns synthetic scheduled copies of a recurring
// transaction for every occurrence after its creation that falls inside
// [from, until]. Non-recurring transactions and unknown frequencies project
// nothing.
func ProjectUpcoming(tx core.Transaction, from, until time.Time) []core.Transaction {
	if !tx.IsRecurring() || until.Before(from) {
		return nil
	}
	r, err := GetRecurrence(tx.Metadata.Frequency)
	if err != nil {
		return nil
	}

	anchor := tx.CreatedAt
	start := anchor
	if s, ok := r.(Seeker); ok && anchor.Before(from) {
		start = s.Seek(anchor, from)
	}

	var out []core.Transaction
	steps := 0
	for at := r.Next(start, anchor); !at.After(until) && len(out) < maxProjected; at = r.Next(at, anchor) {
		if steps++; steps > maxSteps {
			break
		}
		if at.Before(from) {
			continue
		}
		occ := tx
		occ.ID = fmt.Sprintf("%s@%s", tx.ID, at.Format("2006-01-02"))
		occ.CreatedAt = at
		occ.Status = core.StatusScheduled
		occ.Metadata.Upcoming = true
		out = append(out, occ)
	}
	return out
}
