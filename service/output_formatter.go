package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/solidscan/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	showDetails bool
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// SetShowDetails adds complexity details to text output
func (f *OutputFormatterImpl) SetShowDetails(show bool) {
	f.showDetails = show
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data any) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Format renders the response into a string
func (f *OutputFormatterImpl) Format(response *domain.CheckResponse, format domain.OutputFormat) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(response, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write writes the response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.CheckResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("no response to write", nil)
	}

	var err error
	switch format {
	case domain.OutputFormatText, "":
		err = f.writeText(response, writer)
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		err = f.writeCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write %s output", format), err)
	}
	return nil
}

// writeText writes one line per diagnostic followed by a summary table
func (f *OutputFormatterImpl) writeText(response *domain.CheckResponse, writer io.Writer) error {
	location := color.New(color.FgCyan)
	rule := color.New(color.FgYellow)
	faint := color.New(color.Faint)

	for _, d := range response.Diagnostics {
		loc := fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
		fmt.Fprintf(writer, "%s: %s %s %s\n",
			location.Sprint(loc),
			rule.Sprintf("[%s]", d.Rule),
			d.Message,
			faint.Sprintf("(%s)", d.Symbol))

		if f.showDetails && d.Complexity != nil {
			c := d.Complexity
			fmt.Fprintf(writer, "    complexity=%d nodes=%d edges=%d nesting=%d if=%d loops=%d handlers=%d cases=%d\n",
				c.Complexity, c.Nodes, c.Edges, c.NestingDepth,
				c.IfStatements, c.LoopStatements, c.ExceptionHandlers, c.MatchCases)
		}
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "\n%s\n", color.RedString("Errors:"))
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
	}

	fmt.Fprintln(writer)
	fmt.Fprintln(writer, f.summaryTable(response.Summary))

	if response.Summary.TotalDiagnostics == 0 {
		color.New(color.FgGreen).Fprintln(writer, "No SOLID violations found.")
	} else {
		color.New(color.FgYellow).Fprintf(writer, "Found %d violation(s) in %d file(s).\n",
			response.Summary.TotalDiagnostics, response.Summary.FilesAnalyzed)
	}
	return nil
}

// summaryTable renders per-principle counts
func (f *OutputFormatterImpl) summaryTable(summary domain.CheckSummary) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"Principle", "Violations"})
	for _, p := range domain.Principles {
		tbl.AppendRow(table.Row{p, summary.ByPrinciple[p]})
	}
	tbl.AppendFooter(table.Row{"Total", summary.TotalDiagnostics})
	tbl.AppendFooter(table.Row{"Files analyzed", summary.FilesAnalyzed})
	if summary.FilesFailed > 0 {
		tbl.AppendFooter(table.Row{"Files failed", summary.FilesFailed})
	}

	return tbl.Render()
}

var csvHeader = []string{"file", "line", "column", "rule", "principle", "severity", "symbol", "message", "complexity"}

// writeCSV writes one record per diagnostic
func (f *OutputFormatterImpl) writeCSV(response *domain.CheckResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, d := range response.Diagnostics {
		complexity := ""
		if d.Complexity != nil {
			complexity = strconv.Itoa(d.Complexity.Complexity)
		}
		record := []string{
			d.File,
			strconv.Itoa(d.Line),
			strconv.Itoa(d.Column),
			string(d.Rule),
			string(d.Principle),
			string(d.Severity),
			d.Symbol,
			d.Message,
			complexity,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
