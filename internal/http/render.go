package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/clock"
	"github.com/mauv0809/trio-tracker/internal/club"
)

//go:embed templates/*.html
var templateFS embed.FS

func newTemplates(clk clock.Clock, loc *time.Location) *template.Template {
	if loc == nil {
		loc = time.UTC
	}
	funcs := template.FuncMap{
		"relativeTime": func(t time.Time) string { return relativeTime(clk.Now(), t) },
		"percent":      percent,
		"inc":          func(i int) int { return i + 1 },
		"medal":        medal,
		"names":        names,
		"day":          func(t time.Time) string { return t.In(loc).Format("Mon 02 Jan") },
		"timestamp":    func(t time.Time) string { return t.In(loc).Format(time.RFC3339) },
	}
	return template.Must(template.New("trio").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// render executes a named template into a buffer so that template errors
// still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// relativeTime renders how long ago t was, as seen at now.
func relativeTime(now, t time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "min")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	default:
		return plural(seconds/86400, "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// percent renders a win rate in [0, 1] with one decimal.
func percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

func medal(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

func names(players []club.Player) string {
	parts := make([]string, 0, len(players))
	for _, p := range players {
		parts = append(parts, p.Name)
	}
	return strings.Join(parts, ", ")
}
