package types

// SummaryEntry is one line of the final tally: a source that was both
// fetched and parsed.
type SummaryEntry struct {
	Label   string `json:"label"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}
