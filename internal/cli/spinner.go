package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner is a stderr progress indicator for blocking upstream calls.
type Spinner struct {
	s *spinner.Spinner
	w io.Writer
}

func NewSpinner(w io.Writer, message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return &Spinner{s: s, w: w}
}

func (s *Spinner) Start() { s.s.Start() }

func (s *Spinner) Stop() { s.s.Stop() }

func (s *Spinner) Success(message string) {
	s.s.Stop()
	fmt.Fprintf(s.w, "%s %s\n", CheckMark(), message)
}

func (s *Spinner) Fail(message string) {
	s.s.Stop()
	fmt.Fprintf(s.w, "%s %s\n", CrossMark(), message)
}
