package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages holds one parsed template per page.
type pages map[string]*template.Template

func parsePages() (pages, error) {
	out := make(pages)
	for _, name := range []string{"index.html", "forecast.html", "simulate.html", "error.html"} {
		t, err := template.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}

// render executes the page into a buffer before writing status.
func (p pages) render(w http.ResponseWriter, logger *zap.Logger, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p[name].Execute(&buf, data); err != nil {
		logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
