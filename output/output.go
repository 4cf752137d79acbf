package output

import (
	"fmt"
	"strconv"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/publisher"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/testresult"
)

const (
	publishStateKey      = "AZDO_TEST_RESULT_PUBLISH_STATE"
	publishedCountKey    = "AZDO_PUBLISHED_TEST_RESULT_COUNT"
	testRunURLKey        = "AZDO_TEST_RUN_URL"
	subResultMismatchKey = "AZDO_SUBRESULT_MISMATCH_COUNT"
)

// Exporter ...
type Exporter interface {
	ExportPublishState(failed bool)
	ExportSummary(summary publisher.Summary, testRunURL string) error
	SaveRecordsSnapshot(records []testresult.Record) (string, error)
}

type exporter struct {
	envRepository  env.Repository
	logger         log.Logger
	outputExporter export.Exporter
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, outputExporter export.Exporter) Exporter {
	return &exporter{
		envRepository:  envRepository,
		logger:         logger,
		outputExporter: outputExporter,
	}
}

func (e exporter) ExportPublishState(failed bool) {
	state := "succeeded"
	if failed {
		state = "failed"
	}
	if err := e.envRepository.Set(publishStateKey, state); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", publishStateKey, err)
	}
}

func (e exporter) ExportSummary(summary publisher.Summary, testRunURL string) error {
	if err := e.outputExporter.ExportOutput(publishedCountKey, strconv.Itoa(summary.Published)); err != nil {
		return fmt.Errorf("failed to export %s: %w", publishedCountKey, err)
	}

	if err := e.outputExporter.ExportOutput(subResultMismatchKey, strconv.Itoa(summary.SubResultMismatches)); err != nil {
		return fmt.Errorf("failed to export %s: %w", subResultMismatchKey, err)
	}

	if err := e.outputExporter.ExportOutput(testRunURLKey, testRunURL); err != nil {
		return fmt.Errorf("failed to export %s: %w", testRunURLKey, err)
	}

	return nil
}

// SaveRecordsSnapshot writes the parsed records to a JSON log file, so a
// failed publish attempt can be debugged from the build artifacts.
func (e exporter) SaveRecordsSnapshot(records []testresult.Record) (string, error) {
	return saveRecordsToLogFile(records)
}
