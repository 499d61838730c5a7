package dashboard

import (
	"reflect"
	"testing"

	"smsDashboard/models"
)

func TestBuildChart_ParallelSeries(t *testing.T) {
	ch := BuildChart([]models.Metric{
		{Country: "US", Operator: "AT&T", Sent: 100, Success: 90, Failure: 10},
		{Country: "IN", Operator: "Jio", Sent: 5, Success: 5, Failure: 0},
	})

	if !reflect.DeepEqual(ch.Labels, []string{"US - AT&T", "IN - Jio"}) {
		t.Fatalf("labels = %v", ch.Labels)
	}
	want := map[string][]int64{
		"Sent":    {100, 5},
		"Success": {90, 5},
		"Failure": {10, 0},
	}
	if len(ch.Datasets) != len(want) {
		t.Fatalf("datasets = %d", len(ch.Datasets))
	}
	for label, data := range want {
		s, ok := ch.Series(label)
		if !ok || !reflect.DeepEqual(s.Data, data) {
			t.Fatalf("%s = %+v ok=%v", label, s, ok)
		}
	}
}

func TestBuildChart_Empty(t *testing.T) {
	ch := BuildChart(nil)
	if len(ch.Labels) != 0 {
		t.Fatalf("labels = %v", ch.Labels)
	}
	for _, s := range ch.Datasets {
		if s.Data == nil || len(s.Data) != 0 {
			t.Fatalf("%s data = %#v, want empty non-nil", s.Label, s.Data)
		}
	}
}

func TestParseTab(t *testing.T) {
	if ParseTab("signup") != TabSignup || ParseTab("login") != TabLogin || ParseTab("bogus") != TabLogin {
		t.Fatalf("ParseTab mapping wrong")
	}
}
