package junitxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bitrise-steplib/steps-azure-devops-test-report/testresult"
)

// FormatName is the automated test type reported for every parsed record.
const FormatName = "junit"

const (
	consoleOutputAttachmentName = "Console_Output.log"
	errorOutputAttachmentName   = "Error_Output.log"
)

// Report files are discovered by well-known name suffixes.
var acceptedFileNameSuffixes = []string{"junit-results.xml", "junitresults.xml"}

type format struct {
}

// NewFormat ...
func NewFormat() testresult.Format {
	return format{}
}

func (f format) Name() string {
	return FormatName
}

func (f format) Accepts(fileName string) bool {
	base := strings.ToLower(filepath.Base(fileName))
	for _, suffix := range acceptedFileNameSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

func (f format) Open(r io.Reader) testresult.Reader {
	return &reader{decoder: xml.NewDecoder(r)}
}

type testCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *failure      `xml:"failure"`
	Error     *failure      `xml:"error"`
	Skipped   *skipped      `xml:"skipped"`
	SystemOut *capturedText `xml:"system-out"`
	SystemErr *capturedText `xml:"system-err"`
}

type failure struct {
	Type    string `xml:"type,attr"`
	Message string `xml:"message,attr"`
	Value   string `xml:",chardata"`
}

type skipped struct {
	Value string `xml:",chardata"`
}

type capturedText struct {
	Value string `xml:",chardata"`
}

// reader walks the XML token stream and decodes one testcase element at a
// time, so a large report never has to be held in memory as a whole.
type reader struct {
	decoder *xml.Decoder
}

func (r *reader) Read() (testresult.Record, error) {
	for {
		token, err := r.decoder.Token()
		if err != nil {
			if err == io.EOF {
				return testresult.Record{}, io.EOF
			}
			return testresult.Record{}, fmt.Errorf("failed to read XML token: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "testcase" {
			continue
		}

		var tc testCase
		if err := r.decoder.DecodeElement(&tc, &start); err != nil {
			return testresult.Record{}, fmt.Errorf("failed to decode testcase element: %w", err)
		}

		return convertTestCase(tc), nil
	}
}

func convertTestCase(tc testCase) testresult.Record {
	record := testresult.Record{
		Name:            tc.ClassName + "." + tc.Name,
		Kind:            FormatName,
		TypeName:        tc.ClassName,
		Method:          tc.Name,
		DurationSeconds: parseDuration(tc.Time),
		Outcome:         testresult.OutcomePass,
	}

	testFailure := tc.Failure
	if testFailure == nil {
		testFailure = tc.Error
	}
	if testFailure != nil {
		record.Outcome = testresult.OutcomeFail
		record.ExceptionType = testFailure.Type
		record.FailureMessage = testFailure.Message
		record.StackTrace = testFailure.Value

		if tc.SystemOut != nil {
			record.Attachments = append(record.Attachments, testresult.Attachment{
				Name: consoleOutputAttachmentName,
				Text: tc.SystemOut.Value,
			})
		}
		if tc.SystemErr != nil {
			record.Attachments = append(record.Attachments, testresult.Attachment{
				Name: errorOutputAttachmentName,
				Text: tc.SystemErr.Value,
			})
		}
	}

	// A skipped marker wins over a failure child, but the failure details and
	// attachments captured above are kept on the record.
	if tc.Skipped != nil {
		record.Outcome = testresult.OutcomeSkip
		record.SkipReason = tc.Skipped.Value
	}

	return record
}

func parseDuration(value string) float64 {
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return seconds
}
