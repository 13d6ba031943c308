package stepreport

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the layout of the generation timestamp in the header.
const TimestampLayout = "2006-01-02 15:04:05"

// Metadata describes the report header.
type Metadata struct {
	// Name is the report title and the base name of produced files.
	Name string

	// Tester is the author shown in the header.
	Tester string

	// GeneratedAt is the timestamp shown in the header.
	GeneratedAt time.Time

	// BaseDir is the directory the document is written to. Screenshot paths
	// are rendered relative to it. Empty keeps paths unchanged.
	BaseDir string
}

// caseView is one case block of the report.
type caseView struct {
	ID          string
	Description string
	Status      string
	StatusColor string
	Fault       string // set for errored cases
	Steps       []stepView
}

// stepView is one row of a step details table.
type stepView struct {
	Number      int
	Description string
	Expected    string
	Actual      string
	Label       string
	Color       string
	DataLines   []string
	ImagePath   string
	Embed       bool
}

// reportData is the view model passed to the HTML template.
type reportData struct {
	Name        string
	Tester      string
	GeneratedAt string
	Summary     Summary
	Cases       []caseView
}

func buildReportData(results *Results, meta Metadata) reportData {
	sorted := results.Sorted()
	cases := make([]caseView, 0, len(sorted))
	for _, res := range sorted {
		cases = append(cases, buildCaseView(res, meta.BaseDir))
	}

	return reportData{
		Name:        meta.Name,
		Tester:      meta.Tester,
		GeneratedAt: meta.GeneratedAt.Format(TimestampLayout),
		Summary:     results.Summary(),
		Cases:       cases,
	}
}

func buildCaseView(res CaseResult, baseDir string) caseView {
	c := res.Case
	view := caseView{
		ID:          c.ID(),
		Description: c.Description(),
		Status:      c.Status().String(),
		StatusColor: c.Status().Color(),
	}
	if res.Outcome == OutcomeErrored && res.Err != nil {
		view.Fault = res.Err.Error()
	}

	for i, step := range c.steps {
		row := stepView{
			Number:      i + 1,
			Description: step.StepDescription(),
			Label:       step.Label(),
			Color:       step.Color(),
			DataLines:   splitLines(step.TestData()),
		}
		if a, ok := step.(Assertion); ok {
			row.Expected = a.Expected
			row.Actual = a.Actual()
		}
		if path, embed := step.Screenshot(); path != "" {
			row.ImagePath = relativePath(baseDir, path)
			row.Embed = embed
		}
		view.Steps = append(view.Steps, row)
	}
	return view
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// relativePath returns path relative to baseDir with forward slashes so the
// document keeps working after it is archived.
func relativePath(baseDir, path string) string {
	if baseDir == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func parseReportTemplate() (*template.Template, error) {
	return template.New("report").Funcs(template.FuncMap{
		"hasFault": func(c caseView) bool { return c.Fault != "" },
	}).Parse(htmlTemplate)
}

// Render writes the HTML document for results to w. Cases are ordered by
// id. Output is byte-identical for identical results and metadata.
func Render(w io.Writer, results *Results, meta Metadata) error {
	tmpl, err := parseReportTemplate()
	if err != nil {
		return fmt.Errorf("could not parse HTML template: %w", err)
	}

	if err := tmpl.Execute(w, buildReportData(results, meta)); err != nil {
		return fmt.Errorf("could not render HTML report: %w", err)
	}
	return nil
}

// GenerateHTMLReport writes the report to path, replacing any previous
// file. When meta.BaseDir is empty the directory of path is used.
func GenerateHTMLReport(path string, results *Results, meta Metadata) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create report directory %q: %w", dir, err)
		}
	}
	if meta.BaseDir == "" {
		meta.BaseDir = dir
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not remove previous report %q: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report file %q: %w", path, err)
	}
	defer f.Close()

	if err := Render(f, results, meta); err != nil {
		return err
	}
	return f.Close()
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
  table { width: 1000px; margin: 0; padding: 0; table-layout: fixed; border-collapse: collapse; font: 11px/1.4 "Trebuchet MS", sans-serif; }
  thead, tbody, tr { margin: 0; padding: 0; }
  th, td { margin: 0; padding: 6px; border: 1px solid #ccc; font-weight: bold; text-align: left; vertical-align: top; word-wrap: break-word; }
  thead th { background: #333; color: white; }
  tbody td { background: white; color: black; }
  .run-summary { font: 12px "Trebuchet MS", sans-serif; margin-bottom: 12px; }
  .fault { font: 11px/1.4 monospace; color: #c92a2a; white-space: pre-wrap; margin: 4px 0; }
  details { margin-bottom: 24px; }
  summary { cursor: pointer; font: 11px "Trebuchet MS", sans-serif; padding: 4px 0; }
  img.screenshot { max-width: 388px; }
</style>
</head>
<body>
<h3>{{.Name}} - run {{.GeneratedAt}} by {{.Tester}}</h3>
<p class="run-summary">{{.Summary.CasesTotal}} case(s): {{.Summary.CasesSucceeded}} succeeded, {{.Summary.CasesFailed}} failed, {{.Summary.CasesErrored}} errored</p>
{{- range .Cases}}
<table class="case">
<thead><tr><th style="width: 100px">ID</th><th style="width: 700px">Description</th><th style="width: 200px">Status</th></tr></thead>
<tbody><tr><td>{{.ID}}</td><td>{{.Description}}</td><td style="background: {{.StatusColor}}">{{.Status}}</td></tr></tbody>
</table>
{{- if hasFault .}}
<p class="fault">{{.Fault}}</p>
{{- end}}
<details><summary>Step Details</summary>
<table class="steps">
<thead><tr><th style="width: 50px">Step #</th><th style="width: 200px">Description</th><th style="width: 300px">Expected Behavior</th><th style="width: 300px">Actual Behavior</th><th style="width: 50px">Status</th><th style="width: 250px">Test Data</th><th style="width: 400px">Screenshot</th></tr></thead>
<tbody>
{{- range .Steps}}
<tr><td>{{.Number}}</td><td>{{.Description}}</td><td>{{.Expected}}</td><td>{{.Actual}}</td><td style="background: {{.Color}}">{{.Label}}</td><td>{{range $i, $line := .DataLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</td><td>
{{- if not .ImagePath}}N/A
{{- else if .Embed}}<img class="screenshot" src="{{.ImagePath}}" alt="step {{.Number}}">
{{- else}}<a href="{{.ImagePath}}" target="_blank">Link</a>
{{- end}}</td></tr>
{{- end}}
</tbody>
</table>
</details>
{{- end}}
</body>
</html>
`
