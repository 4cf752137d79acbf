package main

import (
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-steputils/v2/stepenv"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/junitxml"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/output"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/step"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/testresult"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()
	testReportUploader := createStep(logger)

	config, err := testReportUploader.ProcessConfig()
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return 1
	}

	result, runErr := testReportUploader.Run(config)
	exportErr := testReportUploader.Export(result, runErr != nil)

	if runErr != nil {
		logger.Errorf("Run: %s", runErr)
		return 1
	}
	if exportErr != nil {
		logger.Errorf("Export outputs: %s", exportErr)
		return 1
	}

	return 0
}

func createStep(logger log.Logger) step.TestReportUploader {
	osRepository := env.NewRepository()
	envRepository := stepenv.NewRepository(osRepository)
	inputParser := stepconf.NewInputParser(envRepository)
	commandFactory := command.NewFactory(envRepository)
	pathChecker := pathutil.NewPathChecker()
	formats := testresult.NewRegistry(junitxml.NewFormat())
	exporter := output.NewExporter(envRepository, logger, export.NewExporter(commandFactory, fileutil.NewFileManager()))

	return step.NewTestReportUploader(inputParser, logger, pathChecker, formats, exporter)
}
