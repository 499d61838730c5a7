package dashboard_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"smsDashboard/internal/dashboard"
	"smsDashboard/models"
)

func loggedIn(t *testing.T, api *fakeAPI, opts dashboard.Options) *dashboard.Controller {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = dashboard.DiscardLogger()
	}
	ctrl := dashboard.NewController(api, opts)
	if err := ctrl.Login(context.Background(), models.Credentials{Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return ctrl
}

func TestLogoutFailure_KeepsStateByDefault(t *testing.T) {
	api := &fakeAPI{registry: []models.CountryOperator{{ID: 1, Country: "US", Operator: "AT&T"}}}
	ctrl := loggedIn(t, api, dashboard.Options{})
	api.logoutErr = errBoom

	if err := ctrl.Logout(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("Logout err = %v", err)
	}
	st := ctrl.State()
	if !st.Authenticated() || len(st.Registry) != 1 {
		t.Fatalf("state dropped on failed logout: %+v", st)
	}
}

func TestLogoutFailure_ClearsWhenConfigured(t *testing.T) {
	api := &fakeAPI{registry: []models.CountryOperator{{ID: 1, Country: "US", Operator: "AT&T"}}}
	ctrl := loggedIn(t, api, dashboard.Options{ClearOnLogoutFailure: true})
	api.logoutErr = errBoom

	if err := ctrl.Logout(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("Logout err = %v", err)
	}
	st := ctrl.State()
	if st.Authenticated() || st.Registry != nil {
		t.Fatalf("state kept on failed logout: %+v", st)
	}
}

func TestUpdateFailure_KeepsEditFormOpen(t *testing.T) {
	seed := models.CountryOperator{ID: 7, Country: "US", Operator: "T-Mobile"}
	api := &fakeAPI{registry: []models.CountryOperator{seed}}
	ctrl := loggedIn(t, api, dashboard.Options{})
	api.updateErr = errBoom

	ctrl.Edit(seed.ID)
	unsaved := models.CountryOperator{ID: 7, Country: "US", Operator: "AT&T", IsHighPriority: true}
	if err := ctrl.Update(context.Background(), unsaved); err == nil {
		t.Fatalf("expected update failure")
	}
	st := ctrl.State()
	if rec, ok := st.EditTarget(); !ok || rec != unsaved {
		t.Fatalf("edit target = %+v ok=%v, want unsaved values", rec, ok)
	}
	if st.Registry[0] != seed {
		t.Fatalf("registry changed on failed update: %+v", st.Registry)
	}

	ctrl.CancelEdit()
	if _, ok := ctrl.State().EditTarget(); ok {
		t.Fatalf("CancelEdit left the edit form open")
	}
}

func TestEdit_UnknownIDKeepsMode(t *testing.T) {
	api := &fakeAPI{registry: []models.CountryOperator{{ID: 1, Country: "US", Operator: "AT&T"}}}
	ctrl := loggedIn(t, api, dashboard.Options{})

	if ctrl.Edit(42) {
		t.Fatalf("Edit(42) should report false")
	}
	if _, ok := ctrl.State().Mode.(dashboard.Adding); !ok {
		t.Fatalf("mode = %T, want Adding", ctrl.State().Mode)
	}

	// Selecting another record replaces the previous selection.
	api.registry = append(api.registry, models.CountryOperator{ID: 2, Country: "IN", Operator: "Jio"})
	if err := ctrl.FetchRegistry(context.Background()); err != nil {
		t.Fatalf("FetchRegistry: %v", err)
	}
	ctrl.Edit(1)
	ctrl.Edit(2)
	if rec, _ := ctrl.State().EditTarget(); rec.ID != 2 {
		t.Fatalf("edit target = %+v, want id 2", rec)
	}
}

func TestFetchFailure_LeavesSnapshotAndLogs(t *testing.T) {
	api := &fakeAPI{metrics: []models.Metric{{Country: "US", Operator: "AT&T", Sent: 3, Success: 3}}}
	var buf bytes.Buffer
	ctrl := loggedIn(t, api, dashboard.Options{Logger: log.New(&buf, "", 0)})

	api.metricsErr = errBoom
	api.registryErr = errBoom
	err := ctrl.Refresh(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("Refresh err = %v", err)
	}
	if st := ctrl.State(); len(st.Metrics) != 1 || st.Metrics[0].Sent != 3 {
		t.Fatalf("metrics snapshot changed: %+v", st.Metrics)
	}
	out := buf.String()
	if !strings.Contains(out, "failed to fetch metrics") || !strings.Contains(out, "failed to fetch country operators") {
		t.Fatalf("missing failure logs: %q", out)
	}
}

func TestLogin_FetchesBothListsOnce(t *testing.T) {
	api := &fakeAPI{}
	loggedIn(t, api, dashboard.Options{})
	if api.metricsCalls != 1 || api.registryCalls != 1 {
		t.Fatalf("fetches after login: metrics=%d registry=%d", api.metricsCalls, api.registryCalls)
	}
}

func TestEdit_WaitsForRunningUpdate(t *testing.T) {
	first := models.CountryOperator{ID: 1, Country: "US", Operator: "T-Mobile"}
	second := models.CountryOperator{ID: 2, Country: "IN", Operator: "Jio"}
	api := &fakeAPI{registry: []models.CountryOperator{first, second}}
	ctrl := loggedIn(t, api, dashboard.Options{})
	ctrl.Edit(first.ID)

	api.updateEntered = make(chan struct{})
	api.updateRelease = make(chan struct{})
	updated := make(chan error, 1)
	go func() {
		saved := first
		saved.Operator = "AT&T"
		updated <- ctrl.Update(context.Background(), saved)
	}()
	<-api.updateEntered

	// The user picks another record while the save is in flight.
	selected := make(chan bool, 1)
	go func() { selected <- ctrl.Edit(second.ID) }()
	time.Sleep(20 * time.Millisecond)
	close(api.updateRelease)

	if err := <-updated; err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !<-selected {
		t.Fatalf("Edit(%d) found nothing", second.ID)
	}
	if rec, ok := ctrl.State().EditTarget(); !ok || rec.ID != second.ID {
		t.Fatalf("edit target = %+v ok=%v, want id %d", rec, ok, second.ID)
	}
}

func TestDelete_RecordUnderEditClosesForm(t *testing.T) {
	api := &fakeAPI{registry: []models.CountryOperator{
		{ID: 1, Country: "US", Operator: "T-Mobile"},
		{ID: 2, Country: "IN", Operator: "Jio"},
	}}
	ctrl := loggedIn(t, api, dashboard.Options{})

	// Deleting some other record keeps the selection.
	ctrl.Edit(1)
	if err := ctrl.Delete(context.Background(), 2); err != nil {
		t.Fatalf("Delete(2): %v", err)
	}
	if rec, ok := ctrl.State().EditTarget(); !ok || rec.ID != 1 {
		t.Fatalf("edit target = %+v ok=%v, want id 1", rec, ok)
	}

	if err := ctrl.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete(1): %v", err)
	}
	st := ctrl.State()
	if _, ok := st.Mode.(dashboard.Adding); !ok {
		t.Fatalf("mode = %T after deleting the edited record, want Adding", st.Mode)
	}
	if len(st.Registry) != 0 {
		t.Fatalf("registry = %+v", st.Registry)
	}
}

func TestDeleteFailure_KeepsRegistryAndLogs(t *testing.T) {
	seed := []models.CountryOperator{{ID: 1, Country: "US", Operator: "AT&T"}}
	api := &fakeAPI{registry: seed}
	var buf bytes.Buffer
	ctrl := loggedIn(t, api, dashboard.Options{Logger: log.New(&buf, "", 0)})
	api.deleteErr = errBoom
	calls := api.registryCalls

	if err := ctrl.Delete(context.Background(), 1); !errors.Is(err, errBoom) {
		t.Fatalf("Delete err = %v", err)
	}
	if st := ctrl.State(); len(st.Registry) != 1 || st.Registry[0] != seed[0] {
		t.Fatalf("registry changed on failed delete: %+v", st.Registry)
	}
	if api.registryCalls != calls {
		t.Fatalf("registry refetched after failed delete")
	}
	if !strings.Contains(buf.String(), "failed to delete country operator") {
		t.Fatalf("missing failure log: %q", buf.String())
	}
}

func TestStopSessionFailure_NoMetricsRefetch(t *testing.T) {
	api := &fakeAPI{metrics: []models.Metric{{Country: "US", Operator: "AT&T", Sent: 3, Success: 3}}}
	var buf bytes.Buffer
	ctrl := loggedIn(t, api, dashboard.Options{Logger: log.New(&buf, "", 0)})
	api.stopErr = errBoom
	calls := api.metricsCalls

	if err := ctrl.StopSession(context.Background(), "US", "AT&T"); !errors.Is(err, errBoom) {
		t.Fatalf("StopSession err = %v", err)
	}
	if api.metricsCalls != calls {
		t.Fatalf("metrics refetched after failed stop: %d -> %d", calls, api.metricsCalls)
	}
	if st := ctrl.State(); len(st.Metrics) != 1 || st.Metrics[0].Sent != 3 {
		t.Fatalf("metrics changed: %+v", st.Metrics)
	}
	if !strings.Contains(buf.String(), "failed to stop session") {
		t.Fatalf("missing failure log: %q", buf.String())
	}
}
