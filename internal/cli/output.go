package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"tasks-api/internal/domain"
)

// displayFormat is how timestamps are shown to the user, always in UTC
const displayFormat = "2006-01-02 15:04:05"

// printTaskTable prints one row per task
func printTaskTable(w io.Writer, tasks []domain.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tTEXT")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			task.ID, task.Status, task.CreatedAt.UTC().Format(displayFormat), task.Text)
	}
	tw.Flush()
}

// printPageSummary reports which slice of the matches is on screen
func printPageSummary(w io.Writer, page *domain.TaskPage) {
	if len(page.Tasks) == 0 {
		fmt.Fprintf(w, "No tasks on this page (%d total)\n", page.Total)
		return
	}
	first := page.Offset + 1
	last := page.Offset + len(page.Tasks)
	fmt.Fprintf(w, "Showing %d-%d of %d tasks\n", first, last, page.Total)
}

// printTaskDetails prints every field of a single task
func printTaskDetails(w io.Writer, task *domain.Task) {
	fmt.Fprintf(w, "ID:      %s\n", task.ID)
	fmt.Fprintf(w, "Text:    %s\n", task.Text)
	fmt.Fprintf(w, "Status:  %s\n", task.Status)
	fmt.Fprintf(w, "Created: %s\n", task.CreatedAt.UTC().Format(displayFormat))
	fmt.Fprintf(w, "Updated: %s\n", task.UpdatedAt.UTC().Format(displayFormat))
}
