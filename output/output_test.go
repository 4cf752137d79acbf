package output

import (
	"os"
	"testing"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/output/mocks"
	"github.com/bitrise-steplib/steps-azure-devops-test-report/testresult"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testingMocks struct {
	envRepository *mocks.Repository
}

func Test_GivenSuccessfulPublish_WhenExportingState_ThenSetsEnvVariableToSucceeded(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportPublishState(false)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", "AZDO_TEST_RESULT_PUBLISH_STATE", "succeeded")
}

func Test_GivenFailedPublish_WhenExportingState_ThenSetsEnvVariableToFailed(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportPublishState(true)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", "AZDO_TEST_RESULT_PUBLISH_STATE", "failed")
}

func Test_GivenParsedRecords_WhenSavingSnapshot_ThenWritesJSONLogFile(t *testing.T) {
	// Given
	exporter, _ := createSutAndMocks()
	records := []testresult.Record{
		{Name: "Suite.test", Kind: "junit", Outcome: testresult.OutcomeFail, FailureMessage: "boom"},
	}

	// When
	pth, err := exporter.SaveRecordsSnapshot(records)

	// Then
	require.NoError(t, err)
	require.FileExists(t, pth)

	content, err := os.ReadFile(pth)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Suite.test")
	assert.Contains(t, string(content), "boom")
}

// Helpers

func createSutAndMocks() (Exporter, testingMocks) {
	envRepository := new(mocks.Repository)
	envRepository.On("Set", mock.Anything, mock.Anything).Return(nil)

	exporter := NewExporter(envRepository, log.NewLogger(), export.NewExporter(nil, nil))

	return exporter, testingMocks{
		envRepository: envRepository,
	}
}
