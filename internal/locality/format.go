// ABOUTME: Renders locality search results as markdown-ish text for the LLM client.
// ABOUTME: One text/template drives locality, department, and region blocks alike.

package locality

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/trustydata/trustydata-mcp/internal/trustydata"
)

const noResultsTemplate = `Status: {{.Status}}
Message: {{.Message}}
No localities found matching your criteria.`

const resultsTemplate = `{{define "population"}}{{range .Rows}}
   - Population {{$.Label}} ({{.Period}}): totale={{.Total}}, municipale={{.Municipal}}, comptée à part={{.CountedSeparately}}{{end}}{{end}}
{{- define "area"}}
   - {{.Title}}: {{.Name}} ({{.Code}}){{template "population" .Population}}{{end}}
{{- /* results */ -}}
Found {{.Count}} {{.Noun}}:
{{range .Localities}}
{{.Index}}. **{{.Name}}**
{{- if .INSEE.Present}}
   - INSEE Code: {{.INSEE}}
{{- end}}
{{- if .PostalCode.Present}}
   - Postal Code: {{.PostalCode}}
{{- end}}
{{- template "population" .Population}}
{{- with .Department}}{{template "area" .}}{{end}}
{{- with .Region}}{{template "area" .}}{{end}}
{{end}}`

var (
	noResultsTmpl = template.Must(template.New("no-results").Parse(noResultsTemplate))
	resultsTmpl   = template.Must(template.New("results").Parse(resultsTemplate))
)

type resultsView struct {
	Count      int
	Noun       string
	Localities []localityView
}

type localityView struct {
	Index      int
	Name       string
	INSEE      trustydata.Figure
	PostalCode trustydata.Figure
	Population populationView
	Department *areaView
	Region     *areaView
}

type areaView struct {
	Title      string
	Name       string
	Code       trustydata.Figure
	Population populationView
}

type populationView struct {
	Label string
	Rows  []trustydata.Population
}

// Format renders a search response. Non-OK statuses and zero counts produce
// the "no localities" notice; anything else lists every choice in order.
func Format(resp *trustydata.SearchResponse) (string, error) {
	var buf strings.Builder

	if resp.Status != trustydata.StatusOK || resp.Count == 0 {
		status := resp.Status
		if status == "" {
			status = "UNKNOWN"
		}
		err := noResultsTmpl.Execute(&buf, struct{ Status, Message string }{status, resp.Message})
		if err != nil {
			return "", fmt.Errorf("rendering empty result: %w", err)
		}
		return buf.String(), nil
	}

	view := resultsView{
		Count:      resp.Count,
		Noun:       pluralize(resp.Count),
		Localities: make([]localityView, len(resp.Choices)),
	}
	for i, loc := range resp.Choices {
		view.Localities[i] = localityView{
			Index:      i + 1,
			Name:       orNA(loc.Name),
			INSEE:      loc.COG.INSEE,
			PostalCode: loc.PostalCode,
			Population: populationView{Label: "ville", Rows: loc.Population},
			Department: newAreaView("Department", "département", loc.Department),
			Region:     newAreaView("Region", "région", loc.Region),
		}
	}

	if err := resultsTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering results: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func newAreaView(title, populationLabel string, area *trustydata.Area) *areaView {
	if area == nil {
		return nil
	}
	return &areaView{
		Title:      title,
		Name:       orNA(area.Name),
		Code:       area.Code,
		Population: populationView{Label: populationLabel, Rows: area.Population},
	}
}

func pluralize(count int) string {
	if count == 1 {
		return "locality"
	}
	return "localities"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
