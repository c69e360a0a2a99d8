package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/model"
)

// Store is the tabular persistence behind the register. It only ever reads
// and writes the whole table.
type Store interface {
	Read(ctx context.Context) (model.Table, error)
	Write(ctx context.Context, table model.Table) error
}

// Observer is notified with fresh metrics after every dashboard read.
type Observer interface {
	ObserveSummary(Summary)
}

// Registry runs register actions against a Store. It holds no table state:
// every action reads the full table, computes in memory and, for mutations,
// writes the full table back. Concurrent writers overwrite each other.
type Registry struct {
	store    Store
	ids      IDGenerator
	now      func() time.Time
	logger   *slog.Logger
	observer Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDGenerator sets the reference id strategy.
func WithIDGenerator(ids IDGenerator) Option {
	return func(r *Registry) { r.ids = ids }
}

// WithClock sets the source of "today" for status updates.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithObserver registers a metrics observer.
func WithObserver(o Observer) Option {
	return func(r *Registry) { r.observer = o }
}

// New creates a Registry over store.
func New(store Store, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		ids:    SequentialIDs{Prefix: DefaultPrefix, Offset: DefaultOffset},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dashboard returns the summary metrics and the full table.
func (r *Registry) Dashboard(ctx context.Context) (Summary, model.Table, error) {
	table, err := r.read(ctx)
	if err != nil {
		return Summary{}, nil, err
	}

	summary := Summarize(table)
	if r.observer != nil {
		r.observer.ObserveSummary(summary)
	}

	r.logger.Debug("dashboard loaded",
		"total", summary.Total,
		"pending", summary.Pending,
		"average_tat", summary.AverageTAT)

	return summary, table, nil
}

// Submit logs a new correspondence item and returns the stored record.
func (r *Registry) Submit(ctx context.Context, entry model.Entry) (model.Correspondence, error) {
	table, err := r.read(ctx)
	if err != nil {
		return model.Correspondence{}, err
	}

	updated, rec := Submit(table, entry, r.ids)
	if err := r.write(ctx, updated); err != nil {
		return model.Correspondence{}, err
	}

	r.logger.Info("correspondence logged",
		"ref_id", rec.RefID,
		"sender", rec.Sender,
		"assigned_to", rec.AssignedTo)

	return rec, nil
}

// Search returns the rows matching query. A blank query matches nothing and
// does not touch the store.
func (r *Registry) Search(ctx context.Context, query string) (model.Table, error) {
	if strings.TrimSpace(query) == "" {
		return model.Table{}, nil
	}

	table, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	matches := Search(table, query)
	r.logger.Debug("search completed", "query", query, "matches", len(matches))
	return matches, nil
}

// UpdateStatus moves the record with refID to status and persists the table.
func (r *Registry) UpdateStatus(ctx context.Context, refID string, status model.Status) (model.Correspondence, error) {
	table, err := r.read(ctx)
	if err != nil {
		return model.Correspondence{}, err
	}

	updated, rec, err := UpdateStatus(table, refID, status, r.now())
	if err != nil {
		return model.Correspondence{}, common.NewUserError(
			fmt.Sprintf("No correspondence with reference %s", refID), err)
	}

	if err := r.write(ctx, updated); err != nil {
		return model.Correspondence{}, err
	}

	r.logger.Info("status updated",
		"ref_id", rec.RefID,
		"status", rec.Status,
		"tat_days", rec.TATDays)

	return rec, nil
}

func (r *Registry) read(ctx context.Context) (model.Table, error) {
	table, err := r.store.Read(ctx)
	if err != nil {
		return nil, common.NewUserError("Could not read the correspondence register",
			fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err))
	}
	return table, nil
}

func (r *Registry) write(ctx context.Context, table model.Table) error {
	if err := r.store.Write(ctx, table); err != nil {
		return common.NewUserError("Could not save the correspondence register",
			fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err))
	}
	return nil
}
