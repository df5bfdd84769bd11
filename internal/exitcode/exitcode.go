package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	CohortError     = 4
	SimError        = 5
	PSAError        = 6
	PartialSuccess  = 7
)
