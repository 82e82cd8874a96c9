package domain

// PunchTable is the decoded tabular input to one pipeline run: the raw
// header sequence plus the data rows, already charset-decoded by the
// loader. The pipeline treats it as read-only.
type PunchTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}
