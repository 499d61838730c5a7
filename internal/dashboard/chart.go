package dashboard

import "smsDashboard/models"

// Series is one line of the metrics chart. Field names follow Chart.js.
type Series struct {
	Label       string  `json:"label"`
	Data        []int64 `json:"data"`
	BorderColor string  `json:"borderColor"`
	Tension     float64 `json:"tension"`
}

// Chart is the data fed to the line chart: three series parallel to Labels.
type Chart struct {
	Labels   []string `json:"labels"`
	Datasets []Series `json:"datasets"`
}

// BuildChart turns a metrics snapshot into Sent, Success and Failure series,
// keeping the snapshot order. Labels are "<country> - <operator>".
func BuildChart(metrics []models.Metric) Chart {
	labels := make([]string, 0, len(metrics))
	sent := make([]int64, 0, len(metrics))
	success := make([]int64, 0, len(metrics))
	failure := make([]int64, 0, len(metrics))
	for _, m := range metrics {
		labels = append(labels, m.Label())
		sent = append(sent, m.Sent)
		success = append(success, m.Success)
		failure = append(failure, m.Failure)
	}
	return Chart{
		Labels: labels,
		Datasets: []Series{
			{Label: "Sent", Data: sent, BorderColor: "rgb(75, 192, 192)", Tension: 0.1},
			{Label: "Success", Data: success, BorderColor: "rgb(54, 162, 235)", Tension: 0.1},
			{Label: "Failure", Data: failure, BorderColor: "rgb(255, 99, 132)", Tension: 0.1},
		},
	}
}

// Series returns the dataset with the given label.
func (c Chart) Series(label string) (Series, bool) {
	for _, s := range c.Datasets {
		if s.Label == label {
			return s, true
		}
	}
	return Series{}, false
}
