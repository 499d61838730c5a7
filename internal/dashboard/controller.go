package dashboard

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"smsDashboard/models"
)

// APIClient is the remote SMS platform API as seen by the dashboard.
// *client.Client implements it.
type APIClient interface {
	CurrentUser(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	Signup(ctx context.Context, creds models.Credentials) error
	Logout(ctx context.Context) error
	ListMetrics(ctx context.Context) ([]models.Metric, error)
	ListCountryOperators(ctx context.Context) ([]models.CountryOperator, error)
	CreateCountryOperator(ctx context.Context, co models.CountryOperator) (*models.CountryOperator, error)
	UpdateCountryOperator(ctx context.Context, co models.CountryOperator) (*models.CountryOperator, error)
	DeleteCountryOperator(ctx context.Context, id int64) error
	StartSession(ctx context.Context, country, operator string) error
	StopSession(ctx context.Context, country, operator string) error
}

// ErrNotAuthenticated is returned by Refresh when no session user is known.
var ErrNotAuthenticated = errors.New("not authenticated")

// Options tunes a Controller.
type Options struct {
	// Logger receives every failure. Defaults to log.Default().
	Logger *log.Logger
	// ClearOnLogoutFailure drops local session state even when the server
	// did not acknowledge the logout.
	ClearOnLogoutFailure bool
}

// Controller owns the dashboard State and applies one transition per user
// action. Actions run one at a time; failures are logged and returned but
// never change state beyond what each action documents.
type Controller struct {
	api                  APIClient
	log                  *log.Logger
	clearOnLogoutFailure bool

	// actionMu serialises actions; mu guards state.
	actionMu sync.Mutex
	mu       sync.RWMutex
	state    State
}

// NewController returns a Controller in the anonymous state.
func NewController(api APIClient, opts Options) *Controller {
	lg := opts.Logger
	if lg == nil {
		lg = log.Default()
	}
	return &Controller{
		api:                  api,
		log:                  lg,
		clearOnLogoutFailure: opts.ClearOnLogoutFailure,
		state:                initialState(),
	}
}

// DiscardLogger is a logger for callers that do not want failure output.
func DiscardLogger() *log.Logger { return log.New(io.Discard, "", 0) }

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Chart returns the chart data of the current metrics snapshot.
func (c *Controller) Chart() Chart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return BuildChart(c.state.Metrics)
}

func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
}

// CheckSession probes for an existing session. When one exists the user is
// stored and both lists are fetched; otherwise the state stays anonymous.
func (c *Controller) CheckSession(ctx context.Context) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	u, err := c.api.CurrentUser(ctx)
	if err != nil {
		c.log.Printf("not authenticated: %v", err)
		return err
	}
	c.signedIn(ctx, u)
	return nil
}

// Login submits the credentials and, on success, loads the dashboard data.
func (c *Controller) Login(ctx context.Context, creds models.Credentials) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()
	return c.login(ctx, creds)
}

func (c *Controller) login(ctx context.Context, creds models.Credentials) error {
	c.update(func(s *State) { s.LoginForm = creds })
	u, err := c.api.Login(ctx, creds)
	if err != nil {
		c.log.Printf("login failed: %v", err)
		return err
	}
	c.signedIn(ctx, u)
	return nil
}

// Signup registers the user and then logs in with the same credentials.
func (c *Controller) Signup(ctx context.Context, creds models.Credentials) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	c.update(func(s *State) { s.SignupForm = creds })
	if err := c.api.Signup(ctx, creds); err != nil {
		c.log.Printf("signup failed: %v", err)
		return err
	}
	return c.login(ctx, creds)
}

// Logout ends the session. Local state is cleared when the server
// acknowledges, or regardless when ClearOnLogoutFailure is set.
func (c *Controller) Logout(ctx context.Context) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	err := c.api.Logout(ctx)
	if err != nil {
		c.log.Printf("logout failed: %v", err)
		if !c.clearOnLogoutFailure {
			return err
		}
	}
	c.update(func(s *State) {
		tab := s.Tab
		*s = initialState()
		s.Tab = tab
	})
	return err
}

// SelectTab switches the anonymous view between the login and signup forms.
func (c *Controller) SelectTab(tab Tab) {
	c.update(func(s *State) { s.Tab = tab })
}

func (c *Controller) signedIn(ctx context.Context, u *models.User) {
	c.update(func(s *State) { s.User = u })
	_ = c.refresh(ctx)
}

// Refresh fetches metrics and the registry concurrently.
func (c *Controller) Refresh(ctx context.Context) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()
	return c.refresh(ctx)
}

func (c *Controller) refresh(ctx context.Context) error {
	c.mu.RLock()
	authed := c.state.Authenticated()
	c.mu.RUnlock()
	if !authed {
		return ErrNotAuthenticated
	}

	var wg sync.WaitGroup
	var metricsErr, registryErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		metricsErr = c.fetchMetrics(ctx)
	}()
	go func() {
		defer wg.Done()
		registryErr = c.fetchRegistry(ctx)
	}()
	wg.Wait()
	return errors.Join(metricsErr, registryErr)
}

// FetchMetrics replaces the metrics snapshot with the server's.
func (c *Controller) FetchMetrics(ctx context.Context) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()
	return c.fetchMetrics(ctx)
}

func (c *Controller) fetchMetrics(ctx context.Context) error {
	ms, err := c.api.ListMetrics(ctx)
	if err != nil {
		c.log.Printf("failed to fetch metrics: %v", err)
		return err
	}
	c.update(func(s *State) { s.Metrics = ms })
	return nil
}

// FetchRegistry replaces the registry with the server's full list.
func (c *Controller) FetchRegistry(ctx context.Context) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()
	return c.fetchRegistry(ctx)
}

func (c *Controller) fetchRegistry(ctx context.Context) error {
	list, err := c.api.ListCountryOperators(ctx)
	if err != nil {
		c.log.Printf("failed to fetch country operators: %v", err)
		return err
	}
	c.update(func(s *State) { s.Registry = list })
	return nil
}

// Create submits a new entry. On success the registry is refetched and the
// add form reset; on failure the form keeps the submitted values.
func (c *Controller) Create(ctx context.Context, entry models.CountryOperator) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	entry.ID = 0
	c.update(func(s *State) { s.AddForm = entry })
	if _, err := c.api.CreateCountryOperator(ctx, entry); err != nil {
		c.log.Printf("failed to add country operator: %v", err)
		return err
	}
	_ = c.fetchRegistry(ctx)
	c.update(func(s *State) { s.AddForm = models.CountryOperator{} })
	return nil
}

// Update replaces all fields of entry.ID. On success the registry is
// refetched and the edit selection cleared; on failure the edit form stays
// open with the unsaved values.
func (c *Controller) Update(ctx context.Context, entry models.CountryOperator) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	c.update(func(s *State) { s.Mode = Editing{Record: entry} })
	if _, err := c.api.UpdateCountryOperator(ctx, entry); err != nil {
		c.log.Printf("failed to update country operator: %v", err)
		return err
	}
	_ = c.fetchRegistry(ctx)
	c.update(func(s *State) { s.Mode = Adding{} })
	return nil
}

// Delete removes the entry and refetches the registry. There is no undo.
// Deleting the record under edit closes the edit form.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	if err := c.api.DeleteCountryOperator(ctx, id); err != nil {
		c.log.Printf("failed to delete country operator: %v", err)
		return err
	}
	_ = c.fetchRegistry(ctx)
	c.update(func(s *State) {
		if rec, ok := s.EditTarget(); ok && rec.ID == id {
			s.Mode = Adding{}
		}
	})
	return nil
}

// StartSession starts sending for the pair and refetches metrics.
func (c *Controller) StartSession(ctx context.Context, country, operator string) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	if err := c.api.StartSession(ctx, country, operator); err != nil {
		c.log.Printf("failed to start session: %v", err)
		return err
	}
	_ = c.fetchMetrics(ctx)
	return nil
}

// StopSession stops sending for the pair and refetches metrics.
func (c *Controller) StopSession(ctx context.Context, country, operator string) error {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	if err := c.api.StopSession(ctx, country, operator); err != nil {
		c.log.Printf("failed to stop session: %v", err)
		return err
	}
	_ = c.fetchMetrics(ctx)
	return nil
}

// Edit selects the registry record with the given id for editing, replacing
// any previous selection. It reports false when no such record is loaded.
// Like the other actions it waits for a running one to finish.
func (c *Controller) Edit(id int64) bool {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, co := range c.state.Registry {
		if co.ID == id {
			c.state.Mode = Editing{Record: co}
			return true
		}
	}
	return false
}

// CancelEdit returns to the add form without touching server state.
func (c *Controller) CancelEdit() {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()
	c.update(func(s *State) { s.Mode = Adding{} })
}
