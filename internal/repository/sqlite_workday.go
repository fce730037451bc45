package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HKK13/hello-bott/internal/db"
	"github.com/HKK13/hello-bott/internal/domain"
)

// SQLiteWorkdayRepo implements WorkdayRepo using a SQLite database.
// Workdays live in the workdays table; their intervals in
// workday_intervals keyed by (workday_id, seq).
type SQLiteWorkdayRepo struct {
	db db.DBTX
}

// NewSQLiteWorkdayRepo creates a new SQLiteWorkdayRepo.
func NewSQLiteWorkdayRepo(conn db.DBTX) *SQLiteWorkdayRepo {
	return &SQLiteWorkdayRepo{db: conn}
}

const workdayColumns = `id, owner, begin_at, end_at, version, created_at, updated_at`

func (r *SQLiteWorkdayRepo) FindMostRecent(ctx context.Context, owner string) (*domain.Workday, error) {
	query := `SELECT ` + workdayColumns + `
		FROM workdays WHERE owner = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`
	w, err := r.scanWorkday(r.db.QueryRowContext(ctx, query, owner))
	if err != nil {
		return nil, err
	}
	if err := r.loadIntervals(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *SQLiteWorkdayRepo) GetByID(ctx context.Context, id string) (*domain.Workday, error) {
	query := `SELECT ` + workdayColumns + ` FROM workdays WHERE id = ?`
	w, err := r.scanWorkday(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadIntervals(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *SQLiteWorkdayRepo) ListByOwner(ctx context.Context, owner string, limit int) ([]*domain.Workday, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + workdayColumns + `
		FROM workdays WHERE owner = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("listing workdays by owner: %w", err)
	}
	workdays, err := r.scanWorkdays(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	for _, w := range workdays {
		if err := r.loadIntervals(ctx, w); err != nil {
			return nil, err
		}
	}
	return workdays, nil
}

func (r *SQLiteWorkdayRepo) Save(ctx context.Context, w *domain.Workday) error {
	if len(w.Intervals) == 0 {
		return fmt.Errorf("saving workday %s: %w", w.ID, domain.ErrCorruptWorkday)
	}
	if w.Version == 0 {
		return r.insert(ctx, w)
	}
	return r.update(ctx, w)
}

func (r *SQLiteWorkdayRepo) insert(ctx context.Context, w *domain.Workday) error {
	query := `INSERT INTO workdays (id, owner, begin_at, end_at, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.Owner,
		formatTime(w.Begin),
		nullableTimeToString(w.End),
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting workday: %w", uniqueViolation(err, "workday"))
	}
	if err := r.writeIntervals(ctx, w); err != nil {
		return err
	}
	w.Version = 1
	return nil
}

func (r *SQLiteWorkdayRepo) update(ctx context.Context, w *domain.Workday) error {
	query := `UPDATE workdays
		SET begin_at = ?, end_at = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		formatTime(w.Begin),
		nullableTimeToString(w.End),
		formatTime(w.UpdatedAt),
		w.ID,
		w.Version,
	)
	if err != nil {
		return fmt.Errorf("updating workday: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated workday rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("workday %s at version %d: %w", w.ID, w.Version, ErrConflict)
	}
	if err := r.writeIntervals(ctx, w); err != nil {
		return err
	}
	w.Version++
	return nil
}

// writeIntervals upserts every interval by position. Intervals are never
// reordered or removed, so seq is the slice index.
func (r *SQLiteWorkdayRepo) writeIntervals(ctx context.Context, w *domain.Workday) error {
	query := `INSERT INTO workday_intervals (workday_id, seq, begin_at, end_at, description)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(workday_id, seq) DO UPDATE SET
			begin_at = excluded.begin_at,
			end_at = excluded.end_at,
			description = excluded.description`
	for i, iv := range w.Intervals {
		_, err := r.db.ExecContext(ctx, query,
			w.ID,
			i,
			formatTime(iv.Begin),
			nullableTimeToString(iv.End),
			iv.Description,
		)
		if err != nil {
			return fmt.Errorf("writing workday interval %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteWorkdayRepo) loadIntervals(ctx context.Context, w *domain.Workday) error {
	query := `SELECT begin_at, end_at, description
		FROM workday_intervals WHERE workday_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, w.ID)
	if err != nil {
		return fmt.Errorf("listing workday intervals: %w", err)
	}
	defer rows.Close()

	w.Intervals = w.Intervals[:0]
	for rows.Next() {
		var iv domain.Interval
		var beginStr string
		var endStr sql.NullString
		if err := rows.Scan(&beginStr, &endStr, &iv.Description); err != nil {
			return fmt.Errorf("scanning workday interval: %w", err)
		}
		if iv.Begin, err = parseTime(beginStr); err != nil {
			return fmt.Errorf("parsing interval begin_at: %w", err)
		}
		if iv.End, err = parseNullableTime(endStr); err != nil {
			return fmt.Errorf("parsing interval end_at: %w", err)
		}
		w.Intervals = append(w.Intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating workday intervals: %w", err)
	}
	return nil
}

// scanWorkday scans a single workday row (without intervals) from a *sql.Row.
func (r *SQLiteWorkdayRepo) scanWorkday(row *sql.Row) (*domain.Workday, error) {
	var w domain.Workday
	var beginStr, createdAtStr, updatedAtStr string
	var endStr sql.NullString

	err := row.Scan(&w.ID, &w.Owner, &beginStr, &endStr, &w.Version, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("workday: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning workday: %w", err)
	}
	return r.populateWorkday(&w, beginStr, endStr, createdAtStr, updatedAtStr)
}

// scanWorkdays scans multiple workday rows from *sql.Rows.
func (r *SQLiteWorkdayRepo) scanWorkdays(rows *sql.Rows) ([]*domain.Workday, error) {
	var workdays []*domain.Workday
	for rows.Next() {
		var w domain.Workday
		var beginStr, createdAtStr, updatedAtStr string
		var endStr sql.NullString

		if err := rows.Scan(&w.ID, &w.Owner, &beginStr, &endStr, &w.Version, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning workday row: %w", err)
		}
		populated, err := r.populateWorkday(&w, beginStr, endStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		workdays = append(workdays, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workdays: %w", err)
	}
	return workdays, nil
}

// populateWorkday fills in parsed time fields after scanning raw strings.
func (r *SQLiteWorkdayRepo) populateWorkday(w *domain.Workday, beginStr string, endStr sql.NullString, createdAtStr, updatedAtStr string) (*domain.Workday, error) {
	var err error
	if w.Begin, err = parseTime(beginStr); err != nil {
		return nil, fmt.Errorf("parsing begin_at: %w", err)
	}
	if w.End, err = parseNullableTime(endStr); err != nil {
		return nil, fmt.Errorf("parsing end_at: %w", err)
	}
	if w.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if w.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return w, nil
}
