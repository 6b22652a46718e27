package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"newsforge/internal/api"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorizeStatus(status string, colorize bool) string {
	if !colorize {
		return status
	}
	switch status {
	case "completed":
		return ansiGreen + status + ansiReset
	case "completed_with_errors":
		return ansiYellow + status + ansiReset
	case "failed":
		return ansiRed + status + ansiReset
	default:
		return status
	}
}

func renderStatus(w io.Writer, status *api.JobStatus) {
	colorize := shouldColorize(w)

	fmt.Fprintf(w, "Job:      %s\n", status.JobID)
	fmt.Fprintf(w, "Status:   %s\n", colorizeStatus(status.Status, colorize))
	fmt.Fprintf(w, "Progress: %d%%\n", status.Progress)
	if status.Error != "" {
		fmt.Fprintf(w, "Error:    %s\n", status.Error)
	}
	if status.StartedAt != nil {
		fmt.Fprintf(w, "Started:  %s\n", status.StartedAt.Local().Format(time.RFC3339))
	}
	if status.FinishedAt != nil {
		fmt.Fprintf(w, "Finished: %s\n", status.FinishedAt.Local().Format(time.RFC3339))
	}
	if len(status.Artifacts) > 0 {
		fmt.Fprintln(w)
		renderArtifacts(w, status.Artifacts)
	}
}

func renderJobs(w io.Writer, summaries []api.JobSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No jobs.")
		return
	}
	colorize := shouldColorize(w)
	rows := make([][]string, 0, len(summaries))
	for _, job := range summaries {
		rows = append(rows, []string{
			job.JobID,
			colorizeStatus(job.Status, colorize),
			strconv.Itoa(job.Progress) + "%",
			job.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(job.Error, 60),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Job", "Status", "Progress", "Created", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
}

func renderArtifacts(w io.Writer, artifacts []api.ArtifactView) {
	if len(artifacts) == 0 {
		fmt.Fprintln(w, "No artifacts.")
		return
	}
	rows := make([][]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		rows = append(rows, []string{
			artifact.Type,
			artifact.Path,
			metadataSummary(artifact.Metadata),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Type", "Path", "Metadata"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
}

func renderHealth(w io.Writer, health api.HealthResponse) {
	rows := [][]string{
		{"total", strconv.Itoa(health.Total)},
		{"queued", strconv.Itoa(health.Queued)},
		{"processing", strconv.Itoa(health.Processing)},
		{"completed", strconv.Itoa(health.Completed)},
		{"degraded", strconv.Itoa(health.Degraded)},
		{"failed", strconv.Itoa(health.Failed)},
	}
	fmt.Fprintf(w, "Daemon: %s\n", health.Status)
	fmt.Fprintln(w, renderTable(
		[]string{"State", "Jobs"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}

func metadataSummary(metadata map[string]any) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, metadata[key]))
	}
	return truncate(strings.Join(parts, " "), 80)
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}
