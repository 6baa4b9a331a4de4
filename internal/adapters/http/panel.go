package http

import (
	"html/template"
	"strings"

	"github.com/duskline/walkie/internal/app"
)

var panelTemplate = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html>
<head><title>walkie admin panel</title></head>
<body>
<h1>walkie</h1>
<p>uptime: {{printf "%.0f" .Uptime}}s | sessions: {{len .Clients}}</p>
<h2>Channels</h2>
<ul>
{{range .Channels}}<li><b>{{.Name}}</b> (owner: {{.Owner}}, {{.UserCount}} users): {{range .Users}}{{.}} {{end}}</li>
{{else}}<li>none</li>
{{end}}
</ul>
<h2>Sessions</h2>
<ul>
{{range .Clients}}<li>{{.Name}} — channel: {{.Channel}}, muted: {{.Muted}}, talking: {{.Talking}}, queue: {{.QueueSize}}</li>
{{else}}<li>none</li>
{{end}}
</ul>
</body>
</html>
`))

// renderPanel builds the HTML admin panel (spec.md §6 `/admin/panel`)
// from the same Snapshot the JSON /admin/status endpoint serves.
func renderPanel(snap app.Snapshot) string {
	var b strings.Builder
	if err := panelTemplate.Execute(&b, snap); err != nil {
		return "panel render error: " + err.Error()
	}
	return b.String()
}
