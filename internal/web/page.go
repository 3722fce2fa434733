package web

import (
	"fmt"
	"html/template"
	"time"

	"cydwatch/internal/core/stopwatch"
)

type statusPage struct {
	Stats       stopwatch.Stats
	Lap         string
	Status      string
	StatusClass string
	Device      DeviceInfo
	Uptime      string
	Memory      string
	Updated     string
}

func newStatusPage(stats stopwatch.Stats, lap uint64, info DeviceInfo) statusPage {
	page := statusPage{
		Stats:   stats,
		Device:  info,
		Updated: time.Now().Format(time.RFC3339),
	}
	switch {
	case stats.IsRunning:
		page.Status, page.StatusClass = "RUNNING", "running"
	case stats.TotalMS == 0:
		page.Status, page.StatusClass = "READY", "ready"
	default:
		page.Status, page.StatusClass = "STOPPED", "stopped"
	}
	if stats.IsRunning {
		page.Lap = stopwatch.Format(lap, stopwatch.StyleFull)
	}
	if info.Uptime > 0 {
		page.Uptime = info.Uptime.Truncate(time.Second).String()
	}
	if info.MemoryTotal > 0 {
		page.Memory = fmt.Sprintf("%.1f%% of %d MiB", info.MemoryUsedPerc, info.MemoryTotal/(1<<20))
	}
	return page
}

var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
<title>CYD Stopwatch Monitor</title>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta http-equiv="refresh" content="5">
<style>
body { font-family: sans-serif; background: #3b3f6b; color: white; margin: 0; padding: 20px; }
.container { max-width: 800px; margin: 0 auto; padding: 30px; border-radius: 15px; background: rgba(255,255,255,0.1); }
.time { font-size: 4em; text-align: center; font-family: monospace; background: rgba(0,0,0,0.3); padding: 20px; border-radius: 10px; }
.status { text-align: center; font-size: 1.5em; margin: 20px 0; }
.status.running { color: #4CAF50; }
.status.stopped { color: #f44336; }
.status.ready { color: #2196F3; }
.stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 20px; }
.box { background: rgba(255,255,255,0.1); padding: 20px; border-radius: 10px; text-align: center; }
.device { text-align: center; font-size: 0.8em; opacity: 0.7; margin-top: 30px; }
a { color: white; }
</style>
</head>
<body>
<div class="container">
<h1>CYD Stopwatch Monitor</h1>
<div class="time">{{.Stats.Formatted}}</div>
<div class="status {{.StatusClass}}">{{.Status}}</div>
<div class="stats">
<div class="box"><div>Total Milliseconds</div><b>{{.Stats.TotalMS}}</b></div>
<div class="box"><div>Hours</div><b>{{.Stats.Hours}}</b></div>
<div class="box"><div>Minutes</div><b>{{.Stats.Minutes}}</b></div>
<div class="box"><div>Seconds</div><b>{{.Stats.Seconds}}</b></div>
{{with .Lap}}<div class="box"><div>Current Lap</div><b>{{.}}</b></div>{{end}}
</div>
<p><a href="/">Refresh</a> <a href="/api">JSON API</a> <a href="/metrics">Metrics</a></p>
<div class="device">
{{with .Device.Hostname}}Host: {{.}}<br>{{end}}
{{with .Uptime}}Uptime: {{.}}<br>{{end}}
{{with .Memory}}Memory: {{.}}<br>{{end}}
Last updated: {{.Updated}}<br>
Auto-refresh in 5 seconds
</div>
</div>
</body>
</html>
`))
