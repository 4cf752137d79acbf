package testresult

import "io"

// Outcome is the normalized result of a single test case.
type Outcome string

const (
	OutcomePass Outcome = "Pass"
	OutcomeFail Outcome = "Fail"
	OutcomeSkip Outcome = "Skip"
)

// Attachment is a named text payload captured next to a test result,
// for example the console output of a failed test.
type Attachment struct {
	Name string
	Text string
}

// Record is one test case parsed from a report file.
type Record struct {
	Name            string
	Kind            string
	TypeName        string
	Method          string
	DurationSeconds float64
	Outcome         Outcome
	ExceptionType   string
	FailureMessage  string
	StackTrace      string
	SkipReason      string
	Attachments     []Attachment
}

// Reader streams the records of a single report file in document order.
type Reader interface {
	// Read returns the next record, or io.EOF once the file is exhausted.
	Read() (Record, error)
}

// Format describes one report file format the step can ingest.
type Format interface {
	Name() string
	// Accepts reports whether a file with the given name belongs to this format.
	Accepts(fileName string) bool
	Open(r io.Reader) Reader
}
