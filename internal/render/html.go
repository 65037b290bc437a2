package render

import (
	"html/template"
	"io"

	"bilancio/internal/report"
)

// reportTemplate mirrors the styling of the original HTML exports:
// right-aligned numerics, light grey headers, dotted cell borders.
var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"amount": Amount,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; width: 100%; border: 1px solid #ccc;
  font-family: Helvetica, Arial, sans-serif; font-size: 14px; }
caption { font-weight: bold; padding: 10px; }
th { background-color: #f0f0f0; color: #333; font-weight: bold;
  border-bottom: 2px solid #999; text-align: right; padding: 10px; }
th.label, td.label { text-align: left; }
td { border: 1px dotted #ccc; text-align: right; padding: 10px; }
tr.total td { font-weight: bold; }
</style>
</head>
<body>
<table>
<caption>{{.Title}}</caption>
<tr><th class="label"></th><th class="label"></th>
{{- range .Months}}<th>{{.}}</th>{{end}}
{{- if .HasYearTotal}}<th>{{.YearTotalLabel}}</th>{{end}}</tr>
{{- range .Rows}}
<tr{{if .IsTotal}} class="total"{{end}}><td class="label">{{.Section}}</td><td class="label">{{.Label}}</td>
{{- range .Cells}}<td>{{amount .}}</td>{{end}}
{{- if $.HasYearTotal}}<td>{{amount .YearTotal}}</td>{{end}}</tr>
{{- end}}
</table>
</body>
</html>
`))

type htmlData struct {
	report.Table
	HasYearTotal   bool
	YearTotalLabel string
}

// HTML writes the table as a standalone styled HTML document.
func HTML(w io.Writer, t report.Table) error {
	data := htmlData{Table: t, YearTotalLabel: report.ColumnYearTotal}
	for _, row := range t.Rows {
		if row.YearTotal.Valid {
			data.HasYearTotal = true
			break
		}
	}
	return reportTemplate.Execute(w, data)
}
