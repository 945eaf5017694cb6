package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"mediascribe/internal/batch"
	"mediascribe/internal/preflight"
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

func renderSummary(summary batch.Summary, colorize bool) string {
	rows := make([][]string, 0, len(summary.Results))
	for _, res := range summary.Results {
		segments := "-"
		elapsed := "-"
		if res.State != batch.StateSkipped {
			segments = strconv.Itoa(res.Segments)
			elapsed = res.Elapsed.Round(100 * time.Millisecond).String()
		}
		detail := ""
		switch {
		case res.Err != nil:
			detail = res.Err.Error()
		case len(res.Issues) > 0:
			detail = strings.Join(res.Issues, "; ")
		}
		rows = append(rows, []string{
			res.File.Stem,
			stateLabel(res.State, colorize),
			segments,
			elapsed,
			detail,
		})
	}
	return renderTable(
		[]string{"File", "State", "Segments", "Elapsed", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func summaryLine(summary batch.Summary) string {
	return fmt.Sprintf("%d written, %d skipped, %d failed in %s",
		summary.Written, summary.Skipped, summary.Failed, summary.Elapsed.Round(time.Second))
}

func renderChecks(results []preflight.Result, colorize bool) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		var status string
		switch {
		case r.Passed:
			status = colorText("OK", text.FgGreen, colorize)
		case r.Optional:
			status = colorText("WARN", text.FgYellow, colorize)
		default:
			status = colorText("FAIL", text.FgRed, colorize)
		}
		rows = append(rows, []string{r.Name, status, r.Detail})
	}
	return renderTable([]string{"Check", "Status", "Detail"}, rows, nil)
}

func stateLabel(state batch.State, colorize bool) string {
	switch state {
	case batch.StateWritten:
		return colorText(string(state), text.FgGreen, colorize)
	case batch.StateSkipped:
		return colorText(string(state), text.FgYellow, colorize)
	case batch.StateFailed:
		return colorText(string(state), text.FgRed, colorize)
	default:
		return string(state)
	}
}

func colorText(value string, color text.Color, colorize bool) string {
	if !colorize {
		return value
	}
	return color.Sprint(value)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
