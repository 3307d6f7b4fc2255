package worksheets

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// cardTemplate renders one catalog card per worksheet.
const cardTemplate = `{{range .}}<article class="card">
  <header>
    <span class="pill">{{.Subject}}</span>
    <span class="pill outline">Grade {{.Grade}}</span>
    <span class="pill access {{.Access}}">{{if .Free}}Free{{else}}Locked{{end}}</span>
  </header>
  <h3>{{.Title}}</h3>
  <p>{{.Description}}</p>
  <ul class="meta-list">
    <li>Chapter: {{.Chapter}}</li>
    <li>Age range: {{.AgeRange}}</li>
    <li>Time: {{.Duration}} min</li>
    <li>Skills: {{join .Skills ", "}}</li>
    <li>Format: {{.Format}}</li>
    <li>Topic: {{.Topic}}</li>
  </ul>
  <div class="tags">
    <span class="pill outline">{{.Topic}}</span>
    <span class="pill outline">Chapter: {{.Chapter}}</span>
    {{range .Skills}}<span class="pill outline">{{.}}</span>{{end}}
  </div>
  <div class="card-actions">
    <a class="btn primary" href="./{{.File}}" target="_blank" rel="noopener">Download PDF</a>
    <button class="btn ghost" data-preview="{{.ID}}" type="button">Preview</button>
  </div>
</article>
{{end}}`

var cards = template.Must(template.New("cards").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(cardTemplate))

// RenderCards renders list as catalog cards.
func RenderCards(list []Worksheet) (string, error) {
	var buf bytes.Buffer
	if err := cards.Execute(&buf, list); err != nil {
		return "", fmt.Errorf("rendering worksheet cards: %w", err)
	}
	return buf.String(), nil
}

// AvgLabel formats the average time stat.
func (s Stats) AvgLabel() string {
	return fmt.Sprintf("%d min", s.AvgDuration)
}
