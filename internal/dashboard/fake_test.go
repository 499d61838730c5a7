package dashboard_test

import (
	"context"
	"errors"
	"sync"

	"smsDashboard/models"
)

var errBoom = errors.New("boom")

// fakeAPI is an in-memory APIClient that counts calls and fails on demand.
type fakeAPI struct {
	mu sync.Mutex

	user     *models.User
	metrics  []models.Metric
	registry []models.CountryOperator

	meErr, loginErr, logoutErr, metricsErr, registryErr, updateErr, deleteErr, stopErr error

	// When set, UpdateCountryOperator signals updateEntered and then waits
	// for updateRelease.
	updateEntered, updateRelease chan struct{}

	metricsCalls, registryCalls, logoutCalls int
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.user, nil
}

func (f *fakeAPI) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.user = &models.User{ID: 1, Username: creds.Username, Email: creds.Email}
	return f.user, nil
}

func (f *fakeAPI) Signup(ctx context.Context, creds models.Credentials) error { return nil }

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAPI) ListMetrics(ctx context.Context) ([]models.Metric, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metricsCalls++
	if f.metricsErr != nil {
		return nil, f.metricsErr
	}
	return append([]models.Metric(nil), f.metrics...), nil
}

func (f *fakeAPI) ListCountryOperators(ctx context.Context) ([]models.CountryOperator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registryCalls++
	if f.registryErr != nil {
		return nil, f.registryErr
	}
	return append([]models.CountryOperator(nil), f.registry...), nil
}

func (f *fakeAPI) CreateCountryOperator(ctx context.Context, co models.CountryOperator) (*models.CountryOperator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	co.ID = int64(len(f.registry) + 1)
	f.registry = append(f.registry, co)
	return &co, nil
}

func (f *fakeAPI) UpdateCountryOperator(ctx context.Context, co models.CountryOperator) (*models.CountryOperator, error) {
	if f.updateEntered != nil {
		close(f.updateEntered)
		<-f.updateRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.registry {
		if f.registry[i].ID == co.ID {
			f.registry[i] = co
		}
	}
	return &co, nil
}

func (f *fakeAPI) DeleteCountryOperator(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.registry[:0]
	for _, co := range f.registry {
		if co.ID != id {
			kept = append(kept, co)
		}
	}
	f.registry = kept
	return nil
}

func (f *fakeAPI) StartSession(ctx context.Context, country, operator string) error { return nil }

func (f *fakeAPI) StopSession(ctx context.Context, country, operator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopErr
}
