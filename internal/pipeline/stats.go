package pipeline

// Stats counts what happened to the sources of a batch.
type Stats struct {
	Sources int // logs discovered
	Rows    int // logs that produced a row
	Empty   int // decoder failed or report had no recognised metrics
	Skipped int // report parsed but path lacked metadata
	Files   []string
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Sources += o.Sources
	s.Rows += o.Rows
	s.Empty += o.Empty
	s.Skipped += o.Skipped
	s.Files = append(s.Files, o.Files...)
}

// Dropped returns the number of sources that did not produce a row.
func (s Stats) Dropped() int {
	return s.Empty + s.Skipped
}
