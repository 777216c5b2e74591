package diffusion

import (
	"fmt"

	"github.com/san-kum/infodiff/internal/dynamo"
)

// Summary holds the headline numbers of a run.
type Summary struct {
	PeakI     float64 `json:"peak_i"`
	PeakTime  float64 `json:"peak_time"`
	TerminalR float64 `json:"terminal_r"`
}

// Summarize scans the trajectory once. The peak is the first index holding
// the maximum I, so equal maxima report the earliest time.
func Summarize(tr *Trajectory) (Summary, error) {
	if tr.Len() == 0 {
		return Summary{}, dynamo.ErrInvalidInput
	}

	peak := 0
	for i := 1; i < len(tr.Points); i++ {
		if tr.Points[i].I > tr.Points[peak].I {
			peak = i
		}
	}

	last, _ := tr.Last()
	return Summary{
		PeakI:     tr.Points[peak].I,
		PeakTime:  tr.Points[peak].Time,
		TerminalR: last.R,
	}, nil
}

// FormattedSummary is a Summary rendered for display.
type FormattedSummary struct {
	PeakI     string
	PeakTime  string
	TerminalR string
}

// Format uses two decimals for fractions and one for the peak time.
func (s Summary) Format() FormattedSummary {
	return FormattedSummary{
		PeakI:     fmt.Sprintf("%.2f", s.PeakI),
		PeakTime:  fmt.Sprintf("%.1f", s.PeakTime),
		TerminalR: fmt.Sprintf("%.2f", s.TerminalR),
	}
}
