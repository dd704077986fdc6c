package models

// SyncReport accumulates reconciliation counters for one run of the
// external calendar sync, per feed and in total.
type SyncReport struct {
	New       int `json:"new"`
	Updated   int `json:"updated"`
	Existing  int `json:"existing"`
	Errors    int `json:"errors"`
	Processed int `json:"processed"`
}

// Add merges another report's counters into this one.
func (r *SyncReport) Add(other SyncReport) {
	r.New += other.New
	r.Updated += other.Updated
	r.Existing += other.Existing
	r.Errors += other.Errors
	r.Processed += other.Processed
}
