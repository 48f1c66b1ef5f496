package app

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"runtime"
	"strings"
	"time"
)

var startTime = time.Now()

// StatusChecksFunc is injected by main to report component health without
// an import cycle.
var StatusChecksFunc func() []StatusCheck

// StatusCheck represents a single status check result
type StatusCheck struct {
	Name    string `json:"name"`
	Status  bool   `json:"status"`
	Details string `json:"details,omitempty"`
}

// StatusResponse represents the full status response
type StatusResponse struct {
	Healthy   bool           `json:"healthy"`
	Uptime    string         `json:"uptime"`
	GoVersion string         `json:"go_version"`
	Memory    MemoryStatus   `json:"memory"`
	Services  []StatusCheck  `json:"services"`
	Mirrors   []*APISummary  `json:"mirrors"`
	APILog    []*APILogEntry `json:"api_log"`
	SysLog    []*SysLogEntry `json:"sys_log"`
}

// MemoryStatus represents memory usage
type MemoryStatus struct {
	Alloc      uint64 `json:"alloc_mb"`
	Sys        uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

const (
	statusAPILogEntries = 20
	statusSysLogEntries = 50
)

// StatusHandler handles the /status endpoint
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	status := buildStatus()

	// Quick health check endpoint
	if r.URL.Query().Get("quick") == "1" {
		RespondJSON(w, map[string]interface{}{
			"healthy": status.Healthy,
			"uptime":  status.Uptime,
		})
		return
	}

	if r.URL.Query().Get("format") == "json" || WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(RenderHTML("Status", "Server status and health checks", renderStatusHTML(status))))
}

func buildStatus() StatusResponse {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var services []StatusCheck
	if StatusChecksFunc != nil {
		services = StatusChecksFunc()
	}

	healthy := true
	for _, s := range services {
		if !s.Status {
			healthy = false
		}
	}

	apiLog := GetAPILog()
	if len(apiLog) > statusAPILogEntries {
		apiLog = apiLog[:statusAPILogEntries]
	}
	sysLog := GetSysLog()
	if len(sysLog) > statusSysLogEntries {
		sysLog = sysLog[:statusSysLogEntries]
	}

	return StatusResponse{
		Healthy:   healthy,
		Uptime:    formatUptime(time.Since(startTime)),
		GoVersion: runtime.Version(),
		Memory: MemoryStatus{
			Alloc:      m.Alloc / 1024 / 1024,
			Sys:        m.Sys / 1024 / 1024,
			NumGC:      m.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
		Services: services,
		Mirrors:  SummarizeAPILog("overpass"),
		APILog:   apiLog,
		SysLog:   sysLog,
	}
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func renderStatusHTML(status StatusResponse) string {
	var sb strings.Builder

	statusText := "Healthy"
	if !status.Healthy {
		statusText = "Issues Detected"
	}
	fmt.Fprintf(&sb, "<h2>%s</h2>", statusText)
	fmt.Fprintf(&sb, "<p>Uptime %s &middot; %s &middot; %d MB alloc &middot; %d goroutines</p>",
		status.Uptime, status.GoVersion, status.Memory.Alloc, status.Memory.Goroutines)

	sb.WriteString("<h3>Services</h3><ul>")
	for _, s := range status.Services {
		mark := "✓"
		if !s.Status {
			mark = "✗"
		}
		fmt.Fprintf(&sb, "<li>%s %s <small>%s</small></li>", mark, html.EscapeString(s.Name), html.EscapeString(s.Details))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>Mirrors</h3><ul>")
	if len(status.Mirrors) == 0 {
		sb.WriteString("<li>No queries yet</li>")
	}
	for _, m := range status.Mirrors {
		fmt.Fprintf(&sb, "<li>%s: %d calls, %d failed", html.EscapeString(m.URL), m.Calls, m.Failures)
		if m.LastError != "" {
			fmt.Fprintf(&sb, " <small>(%s)</small>", html.EscapeString(m.LastError))
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>Log</h3><pre>")
	for _, e := range status.SysLog {
		fmt.Fprintf(&sb, "%s [%s] %s\n", e.Time.Format(time.RFC3339), e.Package, html.EscapeString(e.Message))
	}
	sb.WriteString("</pre>")
	return sb.String()
}
