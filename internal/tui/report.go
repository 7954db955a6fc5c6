package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/joe/davsync/internal/syncengine"
	"github.com/joe/davsync/internal/tui/shared"
)

// WriteSummary prints one row per tracked file followed by the run totals.
// It is the output used when no interactive terminal is attached.
func WriteSummary(w io.Writer, result *syncengine.SyncResult) error {
	if result == nil {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Action", "Size", "Local", "Remote"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, o := range result.Outcomes {
		size := "-"
		if o.Action != syncengine.ActionSkip {
			size = shared.FormatBytes(o.Bytes)
		}

		table.Append([]string{o.Name, o.Action.String(), size, formatStamp(o.LocalTime), formatStamp(o.RemoteTime)})
	}

	table.Render()

	_, err := fmt.Fprintf(w, "\n%d pushed, %d pulled, %d up to date (%s in %s, run %s)\n",
		result.Pushed(), result.Pulled(), result.Skipped(),
		shared.FormatBytes(result.BytesTransferred()),
		shared.FormatDuration(result.Duration),
		result.RunID)

	return err
}

// WriteReport prints the summary of whatever ran, then the error that stopped
// the run. A failed run that transferred files still lists them.
func WriteReport(out, errOut io.Writer, result *syncengine.SyncResult, runErr error) {
	if err := WriteSummary(out, result); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}

	if runErr != nil {
		fmt.Fprint(errOut, shared.RenderSyncError(runErr, 0))
	}
}

// formatStamp renders "-" for a copy that does not exist. The engine marks
// those with the Unix epoch.
func formatStamp(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return "-"
	}

	return t.Format("2006-01-02 15:04:05")
}
