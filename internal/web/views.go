package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shanehull/trendscan/internal/types"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Templates wraps the parsed page templates.
type Templates struct {
	tmpl *template.Template
	log  *zap.SugaredLogger
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"badgeClass": badgeClass,
		"orDefault":  orDefault,
		"card":       card,
	}
}

type topicCard struct {
	Number int
	Topic  types.Topic
}

func card(i int, t types.Topic) topicCard {
	return topicCard{Number: i + 1, Topic: t}
}

// ParseTemplates parses the embedded layout, partials and pages.
func ParseTemplates(log *zap.SugaredLogger) (*Templates, error) {
	t, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}
	return &Templates{tmpl: t, log: log}, nil
}

// Render executes the base layout into a buffer first so that template
// errors turn into a clean 500.
func (t *Templates) Render(w http.ResponseWriter, status int, data *pageData) {
	buf := &bytes.Buffer{}
	if err := t.tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		t.log.Errorw("template execution error", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// badgeClass colours competition and potential labels. Anything outside the
// known sets is grey.
func badgeClass(label string) string {
	switch label {
	case string(types.PotentialHigh), string(types.CompetitionHigh):
		return "bg-green-100 text-green-800 border-green-200"
	case string(types.PotentialMedium), string(types.CompetitionMedium):
		return "bg-yellow-100 text-yellow-800 border-yellow-200"
	case string(types.PotentialLow), string(types.CompetitionLow):
		return "bg-blue-100 text-blue-800 border-blue-200"
	default:
		return "bg-gray-100 text-gray-800 border-gray-200"
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
