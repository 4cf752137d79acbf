package grouping

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/azdo"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/testresult"
)

const defaultPriority = 1

// Correlation identifies the CI job and workitem a batch of results comes
// from. It is embedded into every submitted result and sub result as a JSON
// comment, so published rows can be traced back to the producing workitem.
type Correlation struct {
	JobID        string `json:"JobId"`
	WorkItemName string `json:"WorkItemName"`
}

// Ordering records, per published result name, the original variant names in
// submission order. The service returns sub results as a positional list
// only, this index is what maps them back to the source records.
type Ordering map[string][]string

// Grouper converts parsed records into publishable test case results,
// folding the variants of data-driven tests under a shared parent result.
type Grouper struct {
	comment string
	storage string
	logger  log.Logger
}

// NewGrouper ...
func NewGrouper(correlation Correlation, logger log.Logger) (Grouper, error) {
	comment, err := json.Marshal(correlation)
	if err != nil {
		return Grouper{}, fmt.Errorf("failed to encode correlation comment: %w", err)
	}

	return Grouper{
		comment: string(comment),
		storage: correlation.WorkItemName,
		logger:  logger,
	}, nil
}

// Group converts records in input order. A record whose name carries a
// parenthesized variant suffix is folded into the result of its base name as
// a sub result, every other record becomes a standalone result. The returned
// slice lists grouped results first, in first-seen order, followed by the
// standalone ones. Records with an unrecognized outcome are skipped with a
// warning.
func (g Grouper) Group(records []testresult.Record) ([]azdo.TestCaseResult, Ordering) {
	ordering := Ordering{}
	groupedByBase := map[string]*azdo.TestCaseResult{}
	var groupedOrder []string
	var standalone []azdo.TestCaseResult

	for _, record := range records {
		outcome, known := publishedOutcome(record.Outcome)
		if !known {
			g.logger.Warnf("Skipping %s: unexpected outcome value: %s", record.Name, record.Outcome)
			continue
		}

		if !isDataDrivenVariant(record.Name) {
			standalone = append(standalone, g.convertRecord(record, outcome))
			ordering[record.Name] = []string{}
			continue
		}

		base := baseName(record.Name)
		parent, seen := groupedByBase[base]
		if !seen {
			seed := g.convertRecord(record, outcome)
			seed.TestCaseTitle = base
			seed.AutomatedTestName = base
			seed.ResultGroupType = azdo.ResultGroupDataDriven
			seed.SubResults = []azdo.TestSubResult{g.convertSubResult(record, outcome)}

			groupedByBase[base] = &seed
			groupedOrder = append(groupedOrder, base)
			ordering[base] = []string{record.Name}
			continue
		}

		parent.SubResults = append(parent.SubResults, g.convertSubResult(record, outcome))
		ordering[base] = append(ordering[base], record.Name)
		// Failure propagation is one way: a failed parent never reverts.
		if outcome == azdo.OutcomeFailed {
			parent.Outcome = azdo.OutcomeFailed
		}
	}

	results := make([]azdo.TestCaseResult, 0, len(groupedOrder)+len(standalone))
	for _, base := range groupedOrder {
		results = append(results, *groupedByBase[base])
	}
	results = append(results, standalone...)

	return results, ordering
}

func (g Grouper) convertRecord(record testresult.Record, outcome string) azdo.TestCaseResult {
	result := azdo.TestCaseResult{
		TestCaseTitle:        record.Name,
		AutomatedTestName:    record.Name,
		AutomatedTestType:    record.Kind,
		AutomatedTestStorage: g.storage,
		Priority:             defaultPriority,
		DurationInMs:         record.DurationSeconds * 1000,
		Outcome:              outcome,
		State:                azdo.StateCompleted,
		Comment:              g.comment,
	}

	switch record.Outcome {
	case testresult.OutcomeFail:
		result.ErrorMessage = record.FailureMessage
		result.StackTrace = record.StackTrace
	case testresult.OutcomeSkip:
		result.ErrorMessage = record.SkipReason
	}

	return result
}

// convertSubResult mirrors convertRecord, except that a skipped variant's
// reason is not carried over to the sub result.
func (g Grouper) convertSubResult(record testresult.Record, outcome string) azdo.TestSubResult {
	sub := azdo.TestSubResult{
		DisplayName:  record.Name,
		DurationInMs: record.DurationSeconds * 1000,
		Outcome:      outcome,
		Comment:      g.comment,
	}

	if record.Outcome == testresult.OutcomeFail {
		sub.ErrorMessage = record.FailureMessage
		sub.StackTrace = record.StackTrace
	}

	return sub
}

func publishedOutcome(outcome testresult.Outcome) (string, bool) {
	switch outcome {
	case testresult.OutcomePass:
		return azdo.OutcomePassed, true
	case testresult.OutcomeFail:
		return azdo.OutcomeFailed, true
	case testresult.OutcomeSkip:
		return azdo.OutcomeNotExecuted, true
	}
	return "", false
}

// A data-driven test reports each of its invocations with the parameter list
// appended to the shared test name, for example Suite.testSum(1,2).
func isDataDrivenVariant(name string) bool {
	return strings.HasSuffix(name, ")")
}

func baseName(name string) string {
	if i := strings.Index(name, "("); i != -1 {
		return name[:i]
	}
	return name
}
