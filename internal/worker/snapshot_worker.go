package worker

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"ledgerdash/internal/amqp"
	"ledgerdash/internal/core"
	"ledgerdash/internal/currency"
	"ledgerdash/internal/log"
	"ledgerdash/internal/services"
)

// SnapshotPublisher sends derived snapshots downstream.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, msg *amqp.SnapshotMessage) error
}

// SnapshotWorker turns record batches into dashboard snapshots.
type SnapshotWorker struct {
	dashboard *services.Dashboard
	table     *currency.Table
	prefs     currency.Preferences
	publisher SnapshotPublisher
	location  *time.Location
	fallback  currency.Code
	logger    *log.Logger
	now       func() time.Time
}

// Options configure a SnapshotWorker.
type Options struct {
	Table    *currency.Table
	Prefs    currency.Preferences
	Location *time.Location
	Currency currency.Code
	Logger   *log.Logger
	Now      func() time.Time
}

func NewSnapshotWorker(dashboard *services.Dashboard, publisher SnapshotPublisher, opts Options) *SnapshotWorker {
	w := &SnapshotWorker{
		dashboard: dashboard,
		table:     opts.Table,
		prefs:     opts.Prefs,
		publisher: publisher,
		location:  opts.Location,
		fallback:  opts.Currency,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if w.table == nil {
		w.table = currency.Default()
	}
	if w.location == nil {
		w.location = time.UTC
	}
	if w.fallback == "" {
		w.fallback = w.table.Base()
	}
	if w.logger == nil {
		w.logger = log.New(log.DefaultConfig())
	}
	w.logger = w.logger.WithComponent(log.ComponentWorker)
	if w.now == nil {
		w.now = time.Now
	}
	return w
}

// HandleRecordBatch derives and publishes the snapshot for one batch.
// Invalid batches fail with amqp.ErrPermanent; other errors are retryable.
func (w *SnapshotWorker) HandleRecordBatch(ctx context.Context, msg *amqp.RecordBatchMessage) error {
	w.logger.InfoContext(ctx, "Processing record batch",
		log.FieldBatchID, msg.ID,
		log.FieldViewer, msg.Viewer,
		log.FieldTxCount, len(msg.Transactions))

	in, err := w.input(ctx, msg)
	if err != nil {
		return err
	}

	snap, err := w.dashboard.Build(in)
	if err != nil {
		return fmt.Errorf("build snapshot for batch %s: %w: %w", msg.ID, amqp.ErrPermanent, err)
	}
	log.NewStructuredLogger(w.logger).LogUnrecognized(ctx, string(msg.Viewer), snap.Unrecognized)

	out := amqp.NewSnapshotMessage(msg.ID, snap)
	if err := w.publisher.PublishSnapshot(ctx, out); err != nil {
		return fmt.Errorf("publish snapshot for batch %s: %w", msg.ID, err)
	}

	w.logger.InfoContext(ctx, "Published snapshot",
		log.FieldBatchID, msg.ID,
		log.FieldMessageID, out.ID,
		log.FieldCurrency, snap.Formatted.Currency,
		log.FieldMonth, snap.Month)
	return nil
}

func (w *SnapshotWorker) input(ctx context.Context, msg *amqp.RecordBatchMessage) (services.DashboardInput, error) {
	loc := w.location
	if msg.Timezone != "" {
		l, err := time.LoadLocation(msg.Timezone)
		if err != nil {
			return services.DashboardInput{}, fmt.Errorf("batch %s timezone: %w: %w", msg.ID, amqp.ErrPermanent, err)
		}
		loc = l
	}

	now := w.now()
	if msg.Now != nil {
		now = *msg.Now
	}

	code, err := currency.Resolve(ctx, w.table, w.prefs, msg.Viewer, msg.Currency, w.fallback)
	if errors.Is(err, currency.ErrUnknownCurrency) {
		return services.DashboardInput{}, fmt.Errorf("batch %s currency: %w: %w", msg.ID, amqp.ErrPermanent, err)
	}
	if err != nil {
		return services.DashboardInput{}, fmt.Errorf("batch %s currency: %w", msg.ID, err)
	}

	for i := range msg.Transactions {
		if msg.Transactions[i].Amount.Cents < 0 {
			return services.DashboardInput{}, fmt.Errorf("batch %s transaction %s: %w: %w", msg.ID, msg.Transactions[i].ID, amqp.ErrPermanent, core.ErrNegativeAmount)
		}
	}

	return services.DashboardInput{
		Viewer:       msg.Viewer,
		Transactions: msg.Transactions,
		Loans:        msg.Loans,
		Goal:         msg.Goal,
		Now:          now,
		Location:     loc,
		Currency:     code,
	}, nil
}
