package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/phlox/storefront/internal/core/domain"
	"github.com/phlox/storefront/internal/core/port"
	"github.com/phlox/storefront/pkg/retry"
)

var _ port.FeedbackStorage = (*FeedbackRepository)(nil)

// Default entries, written once when the table is empty.
var seedFeedback = []domain.Feedback{
	{ID: 1, Name: "Andi P.", Message: "Websitenya keren banget! Suka sama desainnya.", Date: "10 Mar 2024"},
	{ID: 2, Name: "Siska L.", Message: "Produknya original, pengiriman cepat.", Date: "11 Mar 2024"},
	{ID: 3, Name: "Budi Santoso", Message: "Fitur custom-nya sangat membantu.", Date: "12 Mar 2024"},
}

type FeedbackRepository struct {
	sqldb sqldb
}

func NewFeedbackRepository(sqldb sqldb) FeedbackRepository {
	return FeedbackRepository{sqldb}
}

// Seed inserts the default entries if the list does not exist yet.
func (r FeedbackRepository) Seed(ctx context.Context) error {
	const op = "FeedbackRepository.Seed"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var n int
	err := r.sqldb.QueryRowContext(
		ctx, `SELECT COUNT(*) FROM feedback;`,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n != 0 {
		return nil
	}

	for _, f := range seedFeedback {
		if err := r.insert(ctx, f); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("seeded default feedback", "nEntries", len(seedFeedback))
	return nil
}

// List returns all entries, most recent first.
func (r FeedbackRepository) List(
	ctx context.Context,
) ([]domain.Feedback, error) {
	const op = "FeedbackRepository.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.sqldb.QueryContext(ctx, `
		SELECT id, name, message, date
		FROM feedback
		ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var fs []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		err := rows.Scan(&f.ID, &f.Name, &f.Message, &f.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		fs = append(fs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fs, nil
}

// Append persists a new entry. The row is durable by the time Append
// returns. Retries briefly when the database file is locked.
func (r FeedbackRepository) Append(
	ctx context.Context, f domain.Feedback,
) error {
	const op = "FeedbackRepository.Append"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	retryCfg := retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.LineareBackoff(50 * time.Millisecond),
		ShouldRetry: isBusy,
	}

	err := retry.Do(ctx, retryCfg, func() error {
		return r.insert(ctx, f)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r FeedbackRepository) insert(
	ctx context.Context, f domain.Feedback,
) error {
	_, err := r.sqldb.ExecContext(ctx, `
		INSERT INTO feedback (id, name, message, date)
		VALUES (?, ?, ?, ?);`,
		f.ID, f.Name, f.Message, f.Date,
	)
	return err
}

func isBusy(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
}
