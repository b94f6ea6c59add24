package suite

// Reporter renders a finished run.
type Reporter interface {
	Report(r *Report) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(r *Report) error

func (f ReporterFunc) Report(r *Report) error {
	return f(r)
}

// MultiReporter fans a report out to several reporters, returning the first
// error after all of them have run.
func MultiReporter(reporters ...Reporter) Reporter {
	return ReporterFunc(func(r *Report) error {
		var first error
		for _, rep := range reporters {
			if rep == nil {
				continue
			}
			if err := rep.Report(r); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}
