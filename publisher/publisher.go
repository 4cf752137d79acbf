package publisher

import (
	"encoding/base64"
	"fmt"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/azdo"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/grouping"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/testresult"
)

// Summary describes what a batch upload actually published.
type Summary struct {
	Submitted           int
	Published           int
	Rejected            int
	AttachmentsUploaded int
	// SubResultMismatches counts results whose reported sub result list did
	// not line up with the submitted variants. Attachment re-association is
	// positional, so a mismatch means attachments may have been dropped.
	SubResultMismatches int
}

// Publisher uploads parsed test results to an Azure DevOps test run.
type Publisher interface {
	UploadBatch(records []testresult.Record) (Summary, error)
}

type publisher struct {
	client  azdo.Client
	grouper grouping.Grouper
	runID   int
	logger  log.Logger
}

// NewPublisher ...
func NewPublisher(client azdo.Client, grouper grouping.Grouper, runID int, logger log.Logger) Publisher {
	return publisher{
		client:  client,
		grouper: grouper,
		runID:   runID,
		logger:  logger,
	}
}

// UploadBatch groups the records, submits them in a single batch and then
// re-associates the records' attachments with the rows the service stored.
func (p publisher) UploadBatch(records []testresult.Record) (Summary, error) {
	attachmentsByName := map[string][]testresult.Attachment{}
	for _, record := range records {
		if len(record.Attachments) > 0 {
			attachmentsByName[record.Name] = record.Attachments
		}
	}

	results, ordering := p.grouper.Group(records)

	return p.publish(results, ordering, attachmentsByName)
}

func (p publisher) publish(results []azdo.TestCaseResult, ordering grouping.Ordering, attachmentsByName map[string][]testresult.Attachment) (Summary, error) {
	summary := Summary{Submitted: len(results)}
	if len(results) == 0 {
		p.logger.Printf("No test results to publish")
		return summary, nil
	}

	p.logger.Printf("Submitting %d test results to run %d", len(results), p.runID)
	published, err := p.client.AddTestResults(p.runID, results)
	if err != nil {
		return summary, fmt.Errorf("failed to add test results to run %d: %w", p.runID, err)
	}

	for _, result := range published {
		if result.ID == azdo.RejectedResultID {
			summary.Rejected++
			continue
		}
		summary.Published++

		if attachments, ok := attachmentsByName[result.AutomatedTestName]; ok {
			uploaded, err := p.uploadResultAttachments(result, attachments)
			summary.AttachmentsUploaded += uploaded
			if err != nil {
				return summary, err
			}
			continue
		}

		if result.SubResults != nil {
			uploaded, mismatched, err := p.uploadSubResultAttachments(result, ordering[result.AutomatedTestName], attachmentsByName)
			summary.AttachmentsUploaded += uploaded
			if mismatched {
				summary.SubResultMismatches++
			}
			if err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

func (p publisher) uploadResultAttachments(result azdo.TestCaseResult, attachments []testresult.Attachment) (int, error) {
	uploaded := 0
	for _, attachment := range attachments {
		if err := p.client.CreateTestResultAttachment(p.runID, result.ID, attachmentRequest(attachment)); err != nil {
			return uploaded, fmt.Errorf("failed to upload attachment %s for %s: %w", attachment.Name, result.TestCaseTitle, err)
		}
		uploaded++
	}
	return uploaded, nil
}

// uploadSubResultAttachments pairs the reported sub results with the
// submitted variant names positionally: the service does not echo back which
// variant a sub result belongs to, only their order.
func (p publisher) uploadSubResultAttachments(result azdo.TestCaseResult, variantNames []string, attachmentsByName map[string][]testresult.Attachment) (int, bool, error) {
	mismatched := len(variantNames) != len(result.SubResults)
	if mismatched {
		p.logger.Warnf("Expected %d sub results for %s but the service reported %d, attachments may be misassociated", len(variantNames), result.AutomatedTestName, len(result.SubResults))
	}

	pairCount := len(variantNames)
	if len(result.SubResults) < pairCount {
		pairCount = len(result.SubResults)
	}

	uploaded := 0
	for i := 0; i < pairCount; i++ {
		attachments, ok := attachmentsByName[variantNames[i]]
		if !ok {
			continue
		}

		for _, attachment := range attachments {
			if err := p.client.CreateTestSubResultAttachment(p.runID, result.ID, result.SubResults[i].ID, attachmentRequest(attachment)); err != nil {
				return uploaded, mismatched, fmt.Errorf("failed to upload attachment %s for variant %s of %s: %w", attachment.Name, variantNames[i], result.TestCaseTitle, err)
			}
			uploaded++
		}
	}

	return uploaded, mismatched, nil
}

func attachmentRequest(attachment testresult.Attachment) azdo.TestAttachmentRequest {
	return azdo.TestAttachmentRequest{
		FileName: attachment.Name,
		Stream:   base64.StdEncoding.EncodeToString([]byte(attachment.Text)),
	}
}
