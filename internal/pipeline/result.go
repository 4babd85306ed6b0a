package pipeline

// Status classifies the terminal outcome of a single item.
type Status string

const (
	// StatusOK means the item's artifact is now present in the output
	// directory, either freshly produced or converted from a raw file.
	StatusOK Status = "ok"

	// StatusSkipped means the current compressed artifact already existed
	// and no work was performed.
	StatusSkipped Status = "skip"

	// StatusFailed means the item could not be produced. The raw artifact
	// is preserved when the failure occurred during conversion.
	StatusFailed Status = "error"
)

// Result describes the terminal outcome of one item.
type Result struct {
	Index    int
	Status   Status
	Message  string
	Warnings []string
}

// Summary tallies the results of a whole run.
type Summary struct {
	Total       int
	OK          int
	Skipped     int
	Failed      int
	Interrupted bool
}

func (s *Summary) add(r Result) {
	switch r.Status {
	case StatusOK:
		s.OK++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}
