package dashboard

import "smsDashboard/models"

// Tab selects the form shown to an anonymous user.
type Tab string

const (
	TabLogin  Tab = "login"
	TabSignup Tab = "signup"
)

// ParseTab maps a request value onto a Tab, falling back to TabLogin.
func ParseTab(s string) Tab {
	if Tab(s) == TabSignup {
		return TabSignup
	}
	return TabLogin
}

// EditMode is either Adding or Editing. The registry view shows exactly one
// form: the add form or the edit form of a single record.
type EditMode interface {
	editMode()
}

// Adding is the idle mode: the add form is shown.
type Adding struct{}

// Editing holds the record being edited, including unsaved changes.
type Editing struct {
	Record models.CountryOperator
}

func (Adding) editMode()  {}
func (Editing) editMode() {}

// State is everything the dashboard renders. It is owned by a Controller and
// only changed by the Controller's action methods.
type State struct {
	User *models.User
	Tab  Tab

	LoginForm  models.Credentials
	SignupForm models.Credentials

	// Metrics and Registry are always the complete result of the last
	// successful fetch.
	Metrics  []models.Metric
	Registry []models.CountryOperator

	AddForm models.CountryOperator
	Mode    EditMode
}

// Authenticated reports whether a session user is known.
func (s State) Authenticated() bool { return s.User != nil }

// EditTarget returns the record under edit, if any.
func (s State) EditTarget() (models.CountryOperator, bool) {
	e, ok := s.Mode.(Editing)
	return e.Record, ok
}

func initialState() State {
	return State{Tab: TabLogin, Mode: Adding{}}
}

// clone returns a copy that shares no slices or pointers with s.
func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Metrics != nil {
		out.Metrics = append([]models.Metric(nil), s.Metrics...)
	}
	if s.Registry != nil {
		out.Registry = append([]models.CountryOperator(nil), s.Registry...)
	}
	return out
}
