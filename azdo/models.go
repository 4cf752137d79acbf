package azdo

// Outcome values understood by the test management API.
const (
	OutcomePassed      = "Passed"
	OutcomeFailed      = "Failed"
	OutcomeNotExecuted = "NotExecuted"
)

// StateCompleted ...
const StateCompleted = "Completed"

// ResultGroupDataDriven marks a result that aggregates parameterized variants.
const ResultGroupDataDriven = "dataDriven"

// RejectedResultID is assigned by the service to submitted rows it declined
// to persist. A rejected row is not an error, it simply has no usable ID.
const RejectedResultID = -1

// TestCaseResult is one row of a test run, both as submitted and as returned
// by the service. The service echoes submitted rows back in the same order,
// with the ID fields filled in.
type TestCaseResult struct {
	ID                   int             `json:"id,omitempty"`
	TestCaseTitle        string          `json:"testCaseTitle,omitempty"`
	AutomatedTestName    string          `json:"automatedTestName,omitempty"`
	AutomatedTestType    string          `json:"automatedTestType,omitempty"`
	AutomatedTestStorage string          `json:"automatedTestStorage,omitempty"`
	Priority             int             `json:"priority,omitempty"`
	DurationInMs         float64         `json:"durationInMs"`
	Outcome              string          `json:"outcome,omitempty"`
	State                string          `json:"state,omitempty"`
	Comment              string          `json:"comment,omitempty"`
	ErrorMessage         string          `json:"errorMessage,omitempty"`
	StackTrace           string          `json:"stackTrace,omitempty"`
	ResultGroupType      string          `json:"resultGroupType,omitempty"`
	SubResults           []TestSubResult `json:"subResults,omitempty"`
}

// TestSubResult is one parameterized variant nested inside a parent result.
type TestSubResult struct {
	ID           int     `json:"id,omitempty"`
	DisplayName  string  `json:"displayName,omitempty"`
	DurationInMs float64 `json:"durationInMs"`
	Outcome      string  `json:"outcome,omitempty"`
	Comment      string  `json:"comment,omitempty"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
	StackTrace   string  `json:"stackTrace,omitempty"`
}

// TestAttachmentRequest is the payload of an attachment upload. Stream is the
// base64 encoded file content.
type TestAttachmentRequest struct {
	FileName string `json:"fileName"`
	Stream   string `json:"stream"`
}
