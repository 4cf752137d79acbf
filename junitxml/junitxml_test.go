package junitxml

import (
	"io"
	"strings"
	"testing"

	"github.com/bitrise-steplib/steps-azure-devops-test-report/testresult"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuites>
  <testsuite name="WidgetTests" tests="4">
    <testcase classname="WidgetTests" name="testRendering" time="0.25" />
    <testcase classname="WidgetTests" name="testLayout" time="1.5">
      <failure type="AssertionError" message="expected 2 got 3">at WidgetTests.testLayout (widget_test.go:42)</failure>
      <system-out>rendering widget</system-out>
      <system-err>layout engine warning</system-err>
    </testcase>
    <testcase classname="WidgetTests" name="testCrash" time="0.1">
      <error type="RuntimeError" message="boom">at WidgetTests.testCrash</error>
    </testcase>
    <testcase classname="WidgetTests" name="testPending">
      <skipped>not implemented yet</skipped>
    </testcase>
  </testsuite>
</testsuites>`

func Test_GivenReportWithMixedResults_WhenReading_ThenReturnsRecordsInDocumentOrder(t *testing.T) {
	// Given
	reader := NewFormat().Open(strings.NewReader(mixedReport))

	// When
	records := readAllRecords(t, reader)

	// Then
	require.Len(t, records, 4)

	assert.Equal(t, testresult.Record{
		Name:            "WidgetTests.testRendering",
		Kind:            "junit",
		TypeName:        "WidgetTests",
		Method:          "testRendering",
		DurationSeconds: 0.25,
		Outcome:         testresult.OutcomePass,
	}, records[0])

	assert.Equal(t, testresult.Record{
		Name:            "WidgetTests.testLayout",
		Kind:            "junit",
		TypeName:        "WidgetTests",
		Method:          "testLayout",
		DurationSeconds: 1.5,
		Outcome:         testresult.OutcomeFail,
		ExceptionType:   "AssertionError",
		FailureMessage:  "expected 2 got 3",
		StackTrace:      "at WidgetTests.testLayout (widget_test.go:42)",
		Attachments: []testresult.Attachment{
			{Name: "Console_Output.log", Text: "rendering widget"},
			{Name: "Error_Output.log", Text: "layout engine warning"},
		},
	}, records[1])

	assert.Equal(t, testresult.OutcomeFail, records[2].Outcome)
	assert.Equal(t, "RuntimeError", records[2].ExceptionType)
	assert.Equal(t, "boom", records[2].FailureMessage)

	assert.Equal(t, testresult.OutcomeSkip, records[3].Outcome)
	assert.Equal(t, "not implemented yet", records[3].SkipReason)
	assert.Zero(t, records[3].DurationSeconds)
}

func Test_GivenFailureWithConsoleOutput_WhenReading_ThenCapturesSingleAttachment(t *testing.T) {
	// Given
	report := `<testsuite>
  <testcase classname="Suite" name="test" time="0.5">
    <failure message="nope">stack</failure>
    <system-out>captured output</system-out>
  </testcase>
</testsuite>`
	reader := NewFormat().Open(strings.NewReader(report))

	// When
	records := readAllRecords(t, reader)

	// Then
	require.Len(t, records, 1)
	assert.Equal(t, testresult.OutcomeFail, records[0].Outcome)
	require.Len(t, records[0].Attachments, 1)
	assert.Equal(t, "Console_Output.log", records[0].Attachments[0].Name)
	assert.Equal(t, "captured output", records[0].Attachments[0].Text)
}

func Test_GivenPassingCaseWithConsoleOutput_WhenReading_ThenCapturesNoAttachment(t *testing.T) {
	// Given
	report := `<testsuite>
  <testcase classname="Suite" name="test" time="0.5">
    <system-out>captured output</system-out>
  </testcase>
</testsuite>`
	reader := NewFormat().Open(strings.NewReader(report))

	// When
	records := readAllRecords(t, reader)

	// Then
	require.Len(t, records, 1)
	assert.Equal(t, testresult.OutcomePass, records[0].Outcome)
	assert.Empty(t, records[0].Attachments)
}

func Test_GivenSkippedMarkerNextToFailure_WhenReading_ThenSkipWinsButFailureDetailsAreKept(t *testing.T) {
	// Given
	report := `<testsuite>
  <testcase classname="Suite" name="test" time="0.5">
    <failure type="AssertionError" message="nope">stack</failure>
    <system-out>captured output</system-out>
    <skipped />
  </testcase>
</testsuite>`
	reader := NewFormat().Open(strings.NewReader(report))

	// When
	records := readAllRecords(t, reader)

	// Then
	require.Len(t, records, 1)
	assert.Equal(t, testresult.OutcomeSkip, records[0].Outcome)
	assert.Empty(t, records[0].SkipReason)
	assert.Equal(t, "nope", records[0].FailureMessage)
	require.Len(t, records[0].Attachments, 1)
}

func Test_GivenSuiteWithoutTestCases_WhenReading_ThenReturnsEOFImmediately(t *testing.T) {
	// Given
	reader := NewFormat().Open(strings.NewReader(`<testsuite name="empty" tests="0"></testsuite>`))

	// When
	_, err := reader.Read()

	// Then
	assert.Equal(t, io.EOF, err)
}

func Test_GivenMalformedXML_WhenReading_ThenReturnsError(t *testing.T) {
	// Given
	reader := NewFormat().Open(strings.NewReader(`<testsuite><testcase classname="Suite"`))

	// When
	_, err := reader.Read()

	// Then
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

func Test_GivenUnparsableTimeAttribute_WhenReading_ThenDurationIsZero(t *testing.T) {
	// Given
	reader := NewFormat().Open(strings.NewReader(`<testsuite><testcase classname="Suite" name="test" time="fast" /></testsuite>`))

	// When
	records := readAllRecords(t, reader)

	// Then
	require.Len(t, records, 1)
	assert.Zero(t, records[0].DurationSeconds)
}

func Test_GivenVariousFileNames_WhenMatching_ThenAcceptsKnownSuffixesOnly(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		accepted bool
	}{
		{"canonical name", "junit-results.xml", true},
		{"condensed name", "junitresults.xml", true},
		{"prefixed name", "widget-junit-results.xml", true},
		{"uppercase name", "JUnit-Results.XML", true},
		{"nested path", "reports/unit/junitresults.xml", true},
		{"other xml", "coverage.xml", false},
		{"suffix in the middle", "junit-results.xml.bak", false},
	}

	format := NewFormat()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.accepted, format.Accepts(tt.fileName))
		})
	}
}

func readAllRecords(t *testing.T, reader testresult.Reader) []testresult.Record {
	var records []testresult.Record
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return records
		}
		require.NoError(t, err)
		records = append(records, record)
	}
}
