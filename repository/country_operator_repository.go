package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"smsDashboard/models"
)

type CountryOperatorRepository struct {
	db *sql.DB
}

func NewCountryOperatorRepository(db *sql.DB) *CountryOperatorRepository {
	return &CountryOperatorRepository{db: db}
}

// Create inserts a new entry and returns it with its generated ID.
// Returns ErrConflict when the (country, operator) pair already exists.
func (r *CountryOperatorRepository) Create(ctx context.Context, co *models.CountryOperator) (*models.CountryOperator, error) {
	if co == nil {
		return nil, errors.New("country operator is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO country_operators (country, operator, is_high_priority) VALUES (?, ?, ?)`,
		co.Country, co.Operator, boolToInt(co.IsHighPriority))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *co
	out.ID = id
	return &out, nil
}

func (r *CountryOperatorRepository) GetByID(ctx context.Context, id int64) (*models.CountryOperator, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanCountryOperator(r.db.QueryRowContext(ctx,
		`SELECT id, country, operator, is_high_priority FROM country_operators WHERE id = ?`, id))
}

func (r *CountryOperatorRepository) GetByPair(ctx context.Context, country, operator string) (*models.CountryOperator, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanCountryOperator(r.db.QueryRowContext(ctx,
		`SELECT id, country, operator, is_high_priority FROM country_operators WHERE country = ? AND operator = ?`, country, operator))
}

// List returns every entry ordered by id.
func (r *CountryOperatorRepository) List(ctx context.Context) ([]models.CountryOperator, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, country, operator, is_high_priority FROM country_operators ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.CountryOperator{}
	for rows.Next() {
		var co models.CountryOperator
		var prio int
		if err := rows.Scan(&co.ID, &co.Country, &co.Operator, &prio); err != nil {
			return nil, err
		}
		co.IsHighPriority = prio != 0
		out = append(out, co)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces country, operator and priority of co.ID.
// Returns ErrNotFound when no such entry exists.
func (r *CountryOperatorRepository) Update(ctx context.Context, co *models.CountryOperator) error {
	if co == nil {
		return errors.New("country operator is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE country_operators SET country = ?, operator = ?, is_high_priority = ? WHERE id = ?`,
		co.Country, co.Operator, boolToInt(co.IsHighPriority), co.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return expectOneRow(res)
}

// Delete removes the entry. Returns ErrNotFound when no such entry exists.
func (r *CountryOperatorRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM country_operators WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func scanCountryOperator(row *sql.Row) (*models.CountryOperator, error) {
	var co models.CountryOperator
	var prio int
	if err := row.Scan(&co.ID, &co.Country, &co.Operator, &prio); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	co.IsHighPriority = prio != 0
	return &co, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
