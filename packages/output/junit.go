package output

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite is one suite that declares specs of its own.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single spec
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a spec failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents an ignored spec
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitReporter writes JUnit XML with one testsuite element per suite that
// has specs, named by the suite's full path.
type JUnitReporter struct {
	*settings
}

func (f *JUnitReporter) Report(r *suite.Report) error {
	root := r.Root
	suites := JUnitTestSuites{
		Name:      root.Name,
		Tests:     root.Total(),
		Failures:  root.Failing,
		Skipped:   root.Ignored,
		Time:      root.Duration.Seconds(),
		Timestamp: r.Start.Format(time.RFC3339),
	}

	root.Walk(func(s *suite.SuiteResult) {
		if len(s.Specs) == 0 {
			return
		}
		ts := JUnitTestSuite{
			Name:      s.FullName,
			Tests:     len(s.Specs),
			Time:      s.SuiteDuration.Seconds(),
			TestCases: make([]JUnitTestCase, 0, len(s.Specs)),
		}
		if !s.Start.IsZero() {
			ts.Timestamp = s.Start.Format(time.RFC3339)
		}
		for _, sp := range s.Specs {
			tc := JUnitTestCase{
				Name:      sp.Name,
				ClassName: s.FullName,
				Time:      sp.Duration.Seconds(),
			}
			switch sp.Status {
			case suite.StatusIgnored:
				ts.Skipped++
				tc.Skipped = &JUnitSkipped{Message: "ignored"}
			case suite.StatusFailed:
				ts.Failures++
				tc.Failure = &JUnitFailure{
					Message: sp.Error,
					Type:    "SpecFailure",
					Content: fmt.Sprintf("%s\nattempts: %d", sp.Error, sp.Attempts),
				}
			}
			ts.TestCases = append(ts.TestCases, tc)
		}
		suites.TestSuites = append(suites.TestSuites, ts)
	})

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
