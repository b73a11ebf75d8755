package report

import (
	"io"
	"text/template"
	"time"

	"github.com/ChristoGH/url-miner/internal/domain"
)

// Markdown renders a fetch run as a Markdown digest: run header, kept
// articles with their extracted meta, and a table of dropped articles.
func Markdown(w io.Writer, run domain.FetchArtifact) error {
	return markdownTmpl.Execute(w, run)
}

var markdownTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"rfc3339": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
}).Parse(`# Fetch report: {{ .FeedName }}

- Run ID: ` + "`{{ .RunID }}`" + `
- Query: ` + "`{{ .Query }}`" + `
- Window: {{ .Window.FromParam }} .. {{ .Window.ToParam }}
- Started: {{ rfc3339 .StartedAt }}
- Pages fetched: {{ .PagesFetched }} ({{ .TotalResults }} result(s) reported by the server)
- Articles: {{ .Stats.Kept }} kept / {{ .Stats.Dropped }} dropped / {{ .Stats.Duplicates }} duplicate(s)
{{- if .Error }}
- Error: {{ .Error }}
{{- end }}

## Articles
{{ range .Articles }}
### {{ if .Title }}{{ .Title }}{{ else }}(untitled){{ end }}

{{- if .Source.Name }}
- Source: {{ .Source.Name }}
{{- end }}
{{- if not .PublishedAt.IsZero }}
- Published: {{ rfc3339 .PublishedAt }}
{{- end }}
- URL: <{{ .URL }}>
{{- range $k, $v := .Meta }}
- {{ $k }}: {{ $v }}
{{- end }}
{{- if .Description }}

> {{ .Description }}
{{- end }}
{{ end }}
{{- if .Dropped }}
## Dropped

| Title | Rule | Reason |
|---|---|---|
{{- range .Dropped }}
| {{ .Title }} | ` + "`{{ .Rule }}`" + ` | {{ .Reason }} |
{{- end }}
{{- end }}
`))
