package azdo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	resultsAPIVersion    = "5.1"
	attachmentAPIVersion = "5.1-preview.1"
)

// Client talks to the test management API of one Azure DevOps project.
type Client interface {
	// AddTestResults registers results on a test run and returns the stored
	// rows, in the same order as submitted.
	AddTestResults(runID int, results []TestCaseResult) ([]TestCaseResult, error)
	CreateTestResultAttachment(runID, resultID int, attachment TestAttachmentRequest) error
	CreateTestSubResultAttachment(runID, resultID, subResultID int, attachment TestAttachmentRequest) error
}

type client struct {
	httpClient    *http.Client
	baseURL       string
	authorization string
	logger        log.Logger
}

// NewClient ...
func NewClient(retryClient *retryablehttp.Client, collectionURL, project string, credentials Credentials, logger log.Logger) (Client, error) {
	authorization, err := credentials.authorizationHeader()
	if err != nil {
		return nil, err
	}

	return &client{
		httpClient:    retryClient.StandardClient(),
		baseURL:       fmt.Sprintf("%s/%s/_apis/test", strings.TrimSuffix(collectionURL, "/"), url.PathEscape(project)),
		authorization: authorization,
		logger:        logger,
	}, nil
}

type testResultsResponse struct {
	Count int              `json:"count"`
	Value []TestCaseResult `json:"value"`
}

func (c *client) AddTestResults(runID int, results []TestCaseResult) ([]TestCaseResult, error) {
	endpoint := fmt.Sprintf("%s/Runs/%d/results?api-version=%s", c.baseURL, runID, resultsAPIVersion)

	var response testResultsResponse
	if err := c.postJSON("add test results", endpoint, results, &response); err != nil {
		return nil, err
	}

	return response.Value, nil
}

func (c *client) CreateTestResultAttachment(runID, resultID int, attachment TestAttachmentRequest) error {
	endpoint := fmt.Sprintf("%s/Runs/%d/Results/%d/attachments?api-version=%s", c.baseURL, runID, resultID, attachmentAPIVersion)
	return c.postJSON("create test result attachment", endpoint, attachment, nil)
}

func (c *client) CreateTestSubResultAttachment(runID, resultID, subResultID int, attachment TestAttachmentRequest) error {
	endpoint := fmt.Sprintf("%s/Runs/%d/Results/%d/attachments?testSubResultId=%d&api-version=%s", c.baseURL, runID, resultID, subResultID, attachmentAPIVersion)
	return c.postJSON("create test sub result attachment", endpoint, attachment, nil)
}

func (c *client) postJSON(operation, endpoint string, payload, response interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	request, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", c.authorization)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warnf("Failed to close response body: %s", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(resp.Body)
		return &ResponseError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	if response != nil {
		if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", operation, err)
		}
	}

	return nil
}
