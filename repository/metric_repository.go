package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"smsDashboard/models"
)

type MetricRepository struct {
	db *sql.DB
}

func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// List returns one row per known (country, operator) pair.
func (r *MetricRepository) List(ctx context.Context) ([]models.Metric, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT country, operator, sent, success, failure FROM metrics ORDER BY country, operator`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Metric{}
	for rows.Next() {
		var m models.Metric
		if err := rows.Scan(&m.Country, &m.Operator, &m.Sent, &m.Success, &m.Failure); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive creates the pair's counters if needed and flags whether a sending
// session is running for it.
func (r *MetricRepository) SetActive(ctx context.Context, country, operator string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO metrics (country, operator, active) VALUES (?, ?, ?)
        ON CONFLICT(country, operator) DO UPDATE SET active = excluded.active, updated_at = CURRENT_TIMESTAMP`,
		country, operator, boolToInt(active))
	return err
}

// IsActive reports whether a session is running for the pair.
func (r *MetricRepository) IsActive(ctx context.Context, country, operator string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var active int
	err := r.db.QueryRowContext(ctx, `SELECT active FROM metrics WHERE country = ? AND operator = ?`, country, operator).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return active != 0, nil
}

// ListActive returns the pairs with a running session, joined with their
// registry priority.
func (r *MetricRepository) ListActive(ctx context.Context) ([]models.CountryOperator, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT COALESCE(c.id, 0), m.country, m.operator, COALESCE(c.is_high_priority, 0)
        FROM metrics m LEFT JOIN country_operators c ON c.country = m.country AND c.operator = m.operator
        WHERE m.active = 1 ORDER BY m.country, m.operator`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.CountryOperator
	for rows.Next() {
		var co models.CountryOperator
		var prio int
		if err := rows.Scan(&co.ID, &co.Country, &co.Operator, &prio); err != nil {
			return nil, err
		}
		co.IsHighPriority = prio != 0
		out = append(out, co)
	}
	return out, rows.Err()
}

// AddCounts increments the counters of an existing pair.
func (r *MetricRepository) AddCounts(ctx context.Context, country, operator string, sent, success, failure int64) error {
	if sent < 0 || success < 0 || failure < 0 {
		return errors.New("counter increments must be non-negative")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE metrics SET sent = sent + ?, success = success + ?, failure = failure + ?, updated_at = CURRENT_TIMESTAMP
        WHERE country = ? AND operator = ?`, sent, success, failure, country, operator)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
