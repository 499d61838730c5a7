package repository

import (
	"context"
	"time"

	"smsDashboard/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetCredentials(ctx context.Context, username string) (*models.User, string, error)
	Delete(ctx context.Context, id int64) error
}

// SessionRepositoryI defines operations on login sessions.
type SessionRepositoryI interface {
	Create(ctx context.Context, id string, userID int64, expiresAt time.Time) error
	IsActive(ctx context.Context, id string) (bool, error)
	Revoke(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// CountryOperatorRepositoryI defines operations on CountryOperator entities.
type CountryOperatorRepositoryI interface {
	Create(ctx context.Context, co *models.CountryOperator) (*models.CountryOperator, error)
	GetByID(ctx context.Context, id int64) (*models.CountryOperator, error)
	GetByPair(ctx context.Context, country, operator string) (*models.CountryOperator, error)
	List(ctx context.Context) ([]models.CountryOperator, error)
	Update(ctx context.Context, co *models.CountryOperator) error
	Delete(ctx context.Context, id int64) error
}

// MetricRepositoryI defines operations on per-pair sending counters.
type MetricRepositoryI interface {
	List(ctx context.Context) ([]models.Metric, error)
	SetActive(ctx context.Context, country, operator string, active bool) error
	IsActive(ctx context.Context, country, operator string) (bool, error)
	ListActive(ctx context.Context) ([]models.CountryOperator, error)
	AddCounts(ctx context.Context, country, operator string, sent, success, failure int64) error
}

var (
	_ UserRepositoryI            = (*UserRepository)(nil)
	_ SessionRepositoryI         = (*SessionRepository)(nil)
	_ CountryOperatorRepositoryI = (*CountryOperatorRepository)(nil)
	_ MetricRepositoryI          = (*MetricRepository)(nil)
)
