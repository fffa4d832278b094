package http

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"heartrisk/patient"
	"heartrisk/predictor"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var printer = message.NewPrinter(language.English)

type optionView struct {
	Value    int
	Label    string
	Selected bool
}

type fieldView struct {
	patient.Field
	Value   string
	Choices []optionView
	Error   string
}

type summaryRow struct {
	Label string
	Value string
}

type pageData struct {
	Fields     []fieldView
	Verdict    *predictor.Verdict
	Summary    []summaryRow
	Error      string
	ModelError string
}

// newPage renders the controls with the given raw values; absent values show
// the field default.
func newPage(values url.Values, fieldErrors map[string]string) *pageData {
	page := &pageData{}
	defaults := patient.Defaults().Values()
	for _, f := range patient.Fields() {
		raw := values.Get(f.Name)
		if raw == "" {
			raw = defaults.Get(f.Name)
		}
		view := fieldView{Field: f, Value: raw, Error: fieldErrors[f.Name]}
		for _, opt := range f.Options {
			view.Choices = append(view.Choices, optionView{
				Value:    opt.Value,
				Label:    opt.Label,
				Selected: strconv.Itoa(opt.Value) == raw,
			})
		}
		page.Fields = append(page.Fields, view)
	}
	return page
}

func sessionPage(s *predictor.Session) *pageData {
	record := s.Record()
	page := newPage(record.Values(), nil)
	if verdict, ok := s.Verdict(); ok {
		page.Verdict = &verdict
		page.Summary = summarize(record)
	}
	return page
}

func summarize(r patient.Record) []summaryRow {
	fields := patient.Fields()
	rows := make([]summaryRow, 0, len(fields))
	for _, f := range fields {
		v := f.Value(r)
		value := f.Display(v)
		if f.Kind == patient.KindNumber {
			value = formatNumber(f, v)
		}
		rows = append(rows, summaryRow{Label: f.Label, Value: value})
	}
	return rows
}

func formatNumber(f patient.Field, v float64) string {
	if f.Integral() {
		return printer.Sprintf("%d", int(v))
	}
	return printer.Sprintf("%.1f", v)
}
