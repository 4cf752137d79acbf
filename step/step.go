package step

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/azdo"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/grouping"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/output"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/publisher"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/testresult"
	"github.com/kballard/go-shellquote"
)

// Input ...
type Input struct {
	// Azure DevOps connection
	CollectionURL       string          `env:"collection_url,required"`
	TeamProject         string          `env:"team_project,required"`
	TestRunID           int             `env:"test_run_id,required"`
	AccessToken         stepconf.Secret `env:"access_token"`
	PersonalAccessToken stepconf.Secret `env:"personal_access_token"`

	// Test reports
	ResultsDir               string `env:"results_dir,required"`
	AdditionalResultPatterns string `env:"additional_result_patterns"`

	// Result correlation
	JobID        string `env:"job_id"`
	WorkitemName string `env:"workitem_name,required"`

	// Debugging
	Verbose bool `env:"verbose,opt[yes,no]"`
}

// Config ...
type Config struct {
	CollectionURL  string
	TeamProject    string
	TestRunID      int
	Credentials    azdo.Credentials
	ResultsDir     string
	ResultPatterns []string
	Correlation    grouping.Correlation
}

// Result ...
type Result struct {
	Summary    publisher.Summary
	TestRunURL string
	Records    []testresult.Record
}

// TestReportUploader parses test report files and publishes their results to an Azure DevOps test run.
type TestReportUploader struct {
	inputParser stepconf.InputParser
	logger      log.Logger
	pathChecker pathutil.PathChecker
	formats     testresult.Registry
	exporter    output.Exporter
}

// NewTestReportUploader ...
func NewTestReportUploader(inputParser stepconf.InputParser, logger log.Logger, pathChecker pathutil.PathChecker, formats testresult.Registry, exporter output.Exporter) TestReportUploader {
	return TestReportUploader{
		inputParser: inputParser,
		logger:      logger,
		pathChecker: pathChecker,
		formats:     formats,
		exporter:    exporter,
	}
}

// ProcessConfig ...
func (s TestReportUploader) ProcessConfig() (Config, error) {
	var input Input
	err := s.inputParser.Parse(&input)
	if err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	s.logger.Println()
	s.logger.EnableDebugLog(input.Verbose)

	credentials := azdo.Credentials{
		AccessToken:         string(input.AccessToken),
		PersonalAccessToken: string(input.PersonalAccessToken),
	}
	if err := credentials.Validate(); err != nil {
		return Config{}, err
	}

	if input.TestRunID < 0 {
		return Config{}, fmt.Errorf("invalid test run ID (%d): expected a non-negative integer", input.TestRunID)
	}

	exists, err := s.pathChecker.IsPathExists(input.ResultsDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to check if results dir exists: %w", err)
	}
	if !exists {
		return Config{}, fmt.Errorf("results dir does not exist: %s", input.ResultsDir)
	}

	patterns, err := shellquote.Split(input.AdditionalResultPatterns)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse additional result patterns (%s): %w", input.AdditionalResultPatterns, err)
	}

	return Config{
		CollectionURL:  strings.TrimSuffix(input.CollectionURL, "/"),
		TeamProject:    input.TeamProject,
		TestRunID:      input.TestRunID,
		Credentials:    credentials,
		ResultsDir:     input.ResultsDir,
		ResultPatterns: patterns,
		Correlation: grouping.Correlation{
			JobID:        input.JobID,
			WorkItemName: input.WorkitemName,
		},
	}, nil
}

// Run ...
func (s TestReportUploader) Run(cfg Config) (Result, error) {
	s.logger.Println()
	s.logger.Infof("Collecting test report files:")

	reportFiles, err := s.collectReportFiles(cfg.ResultsDir, cfg.ResultPatterns)
	if err != nil {
		return Result{}, fmt.Errorf("failed to collect test report files: %w", err)
	}
	if len(reportFiles) == 0 {
		s.logger.Printf("No test report files found in %s", cfg.ResultsDir)
	}

	var records []testresult.Record
	for _, reportFile := range reportFiles {
		s.logger.Printf("- %s", reportFile)

		fileRecords, err := s.parseReportFile(reportFile)
		if err != nil {
			s.logger.Warnf("Skipping %s: %s", reportFile, err)
			continue
		}

		records = append(records, fileRecords...)
	}
	s.logger.Printf("Parsed %d test results", len(records))

	result := Result{
		TestRunURL: testRunURL(cfg),
		Records:    records,
	}

	grouper, err := grouping.NewGrouper(cfg.Correlation, s.logger)
	if err != nil {
		return result, fmt.Errorf("failed to create result grouper: %w", err)
	}

	client, err := azdo.NewClient(retryhttp.NewClient(s.logger), cfg.CollectionURL, cfg.TeamProject, cfg.Credentials, s.logger)
	if err != nil {
		return result, fmt.Errorf("failed to create Azure DevOps client: %w", err)
	}

	s.logger.Println()
	s.logger.Infof("Publishing test results:")

	summary, err := publisher.NewPublisher(client, grouper, cfg.TestRunID, s.logger).UploadBatch(records)
	result.Summary = summary
	if err != nil {
		return result, fmt.Errorf("failed to publish test results: %w", err)
	}

	s.logger.Println()
	s.logger.Donef("Published %d test results to run %d", summary.Published, cfg.TestRunID)
	if summary.Rejected > 0 {
		s.logger.Warnf("The service rejected %d results", summary.Rejected)
	}

	return result, nil
}

// Export ...
func (s TestReportUploader) Export(result Result, publishFailed bool) error {
	s.exporter.ExportPublishState(publishFailed)

	if publishFailed && len(result.Records) > 0 {
		logPth, err := s.exporter.SaveRecordsSnapshot(result.Records)
		if err != nil {
			s.logger.Warnf("Failed to save parsed test results: %s", err)
		} else {
			s.logger.Printf("Saved parsed test results to %s", logPth)
		}
	}

	return s.exporter.ExportSummary(result.Summary, result.TestRunURL)
}

// collectReportFiles walks the results dir and returns every file that either one
// of the registered formats accepts or one of the additional patterns matches.
func (s TestReportUploader) collectReportFiles(resultsDir string, patterns []string) ([]string, error) {
	var reportFiles []string
	err := filepath.WalkDir(resultsDir, func(pth string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		accepted, err := s.isReportFile(pth, patterns)
		if err != nil {
			return err
		}
		if accepted {
			reportFiles = append(reportFiles, pth)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return reportFiles, nil
}

func (s TestReportUploader) isReportFile(pth string, patterns []string) (bool, error) {
	if _, ok := s.formats.Match(pth); ok {
		return true, nil
	}

	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, filepath.Base(pth))
		if err != nil {
			return false, fmt.Errorf("invalid result pattern (%s): %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}

	return false, nil
}

func (s TestReportUploader) parseReportFile(pth string) ([]testresult.Record, error) {
	format, ok := s.formats.Match(pth)
	if !ok {
		format, ok = s.formats.Default()
		if !ok {
			return nil, fmt.Errorf("no test result format registered")
		}
	}

	file, err := os.Open(pth)
	if err != nil {
		return nil, fmt.Errorf("failed to open test report: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warnf("Failed to close %s: %s", pth, err)
		}
	}()

	var records []testresult.Record
	reader := format.Open(file)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse test report as %s: %w", format.Name(), err)
		}

		records = append(records, record)
	}

	return records, nil
}

func testRunURL(cfg Config) string {
	return fmt.Sprintf("%s/%s/_testManagement/runs?runId=%d&_a=resultSummary", cfg.CollectionURL, url.PathEscape(cfg.TeamProject), cfg.TestRunID)
}
