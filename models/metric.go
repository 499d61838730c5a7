package models

// Metric holds the sending counters of one (country, operator) pair.
// Counters are computed server side; the client only reads them.
type Metric struct {
	Country  string `db:"country" json:"country"`
	Operator string `db:"operator" json:"operator"`
	Sent     int64  `db:"sent" json:"sent"`
	Success  int64  `db:"success" json:"success"`
	Failure  int64  `db:"failure" json:"failure"`
}

// Label is the chart label of the pair.
func (m Metric) Label() string {
	return m.Country + " - " + m.Operator
}
