package shared

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// NewProgressModel creates a progress bar model with the shared styling.
func NewProgressModel(width int) progress.Model {
	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = width
	progressBar.ShowPercentage = false

	if !colorsDisabled {
		progressBar.EmptyColor = dimColorCode
		progressBar.FullColor = accentColorCode
	}

	return progressBar
}

// RenderASCIIProgress renders percent (0.0 to 1.0) as "[####      ] 40%".
func RenderASCIIProgress(percent float64, width int) string {
	percent = min(max(percent, 0), 1)
	filled := int(percent * float64(width))

	return fmt.Sprintf("[%s%s] %d%%",
		strings.Repeat("#", filled),
		strings.Repeat(" ", width-filled),
		int(percent*ProgressPercentageScale))
}

// RenderFileProgress renders how many of total files are handled, using the
// bubbles bar or the ASCII fallback when NO_COLOR is set or TERM=dumb.
func RenderFileProgress(model progress.Model, done, total int) string {
	percent := 0.0
	if total > 0 {
		percent = float64(done) / float64(total)
	}

	bar := RenderASCIIProgress(percent, model.Width)
	if !colorsDisabled {
		bar = model.ViewAs(percent)
	}

	return fmt.Sprintf("%s  %d/%d files", bar, done, total)
}
