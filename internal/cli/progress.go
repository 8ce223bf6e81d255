package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"

	"edgedeploy/pkg/logging"
)

// SpinnerProgress shows the cluster wait loop as a terminal spinner. On a
// non-terminal writer the spinner stays silent and only debug logs remain.
type SpinnerProgress struct {
	s *spinner.Spinner
}

// NewSpinnerProgress creates a SpinnerProgress writing to w.
func NewSpinnerProgress(w io.Writer) *SpinnerProgress {
	return &SpinnerProgress{
		s: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w)),
	}
}

func (p *SpinnerProgress) Start(message string) {
	p.setSuffix(message)
	p.s.Start()
}

func (p *SpinnerProgress) Update(message string) {
	logging.Debug("Progress", "%s", message)
	p.setSuffix(message)
}

func (p *SpinnerProgress) Stop() {
	p.s.Stop()
}

func (p *SpinnerProgress) setSuffix(message string) {
	p.s.Lock()
	defer p.s.Unlock()
	p.s.Suffix = " " + message
}
