package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/display-dimmer/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"countdown": func(d time.Duration) string {
		return d.Truncate(time.Second).String()
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"stateClass": func(s string) string {
		switch s {
		case "FULL_BRIGHTNESS":
			return "full"
		case "DIMMED":
			return "dimmed"
		case "OFF":
			return "off"
		default:
			return "unknown"
		}
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Display Dimmer</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.full { color: green; font-weight: bold; }
.dimmed { color: orange; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
button { font-family: monospace; padding: 6px 16px; }
</style>
</head>
<body>
<h1>Display Dimmer</h1>

<h2>Display</h2>
<table>
<tr><th>State</th><td class="{{stateClass (stateOrUnknown (printf "%s" .State))}}">{{stateOrUnknown (printf "%s" .State)}}</td></tr>
<tr><th>Brightness</th><td>{{.Brightness}}%</td></tr>
<tr><th>Backend</th><td>{{if .Backend}}{{.Backend}}{{else}}unknown{{end}}</td></tr>
{{if .Countdown}}<tr><th>Next transition</th><td>{{.Countdown.Kind}} in {{countdown .Countdown.Remaining}}</td></tr>{{end}}
</table>

<h2>Motion</h2>
<table>
<tr><th>Events</th><td>{{.MotionCount}}</td></tr>
<tr><th>Last motion</th><td>{{if .LastMotion.IsZero}}never{{else}}{{.LastMotion.UTC.Format "2006-01-02T15:04:05Z"}}{{end}}</td></tr>
</table>
<form method="POST" action="/trigger"><button type="submit">Trigger motion</button></form>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Sensor pin</th><td>GPIO {{.Config.SensorPin}}</td></tr>
<tr><th>Display timeout</th><td>{{.Config.DisplayTimeoutMs}}ms</td></tr>
<tr><th>Dimming timeout</th><td>{{.Config.DimmingTimeoutMs}}ms</td></tr>
<tr><th>Dim brightness</th><td>{{.Config.DimBrightness}}%</td></tr>
<tr><th>Mode</th><td>{{if .Config.TestMode}}simulated{{else}}hardware{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, countdown *countdownInfo) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime    time.Duration
		Countdown *countdownInfo
	}{
		Snapshot:  snap,
		Uptime:    snap.Uptime(),
		Countdown: countdown,
	}
	indexTmpl.Execute(w, data)
}
