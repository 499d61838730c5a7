package models

// CountryOperator is a routing entry pairing a destination country with a
// telecom operator. ID is assigned by the server.
type CountryOperator struct {
	ID             int64  `db:"id" json:"id"`
	Country        string `db:"country" json:"country"`
	Operator       string `db:"operator" json:"operator"`
	IsHighPriority bool   `db:"is_high_priority" json:"is_high_priority"`
}

// Label is the "<country> - <operator>" form used by the chart and the table.
func (c CountryOperator) Label() string {
	return c.Country + " - " + c.Operator
}

// Priority is the table wording of the priority flag.
func (c CountryOperator) Priority() string {
	if c.IsHighPriority {
		return "High"
	}
	return "Normal"
}
