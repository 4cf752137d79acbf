package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/testresult"
)

func saveRecordsToLogFile(records []testresult.Record) (string, error) {
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode test result records: %w", err)
	}

	tmpDir, err := pathutil.NormalizedOSTempDirPath("azure-devops-test-report")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir, error: %s", err)
	}

	logPth := filepath.Join(tmpDir, "parsed-test-results.json")
	if err := fileutil.WriteStringToFile(logPth, string(payload)); err != nil {
		return "", fmt.Errorf("failed to write test result records to file, error: %s", err)
	}

	return logPth, nil
}
