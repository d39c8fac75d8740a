package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shanehull/trendscan/internal/types"
)

// HTMLRenderer renders a result as an HTML email with a plain text fallback.
type HTMLRenderer struct {
	tmpl *template.Template
}

type emailData struct {
	Scope       string
	GeneratedAt string
	Result      *types.TrendAnalysisResult
}

// NewHTMLRenderer creates a renderer with the default email template.
func NewHTMLRenderer() *HTMLRenderer {
	t := template.Must(template.New("email").Funcs(template.FuncMap{
		"inc":        func(i int) int { return i + 1 },
		"levelClass": LevelClass,
	}).Parse(emailHTMLTemplate))
	return &HTMLRenderer{tmpl: t}
}

// Render produces the subject, HTML body and text body for a result.
func (r *HTMLRenderer) Render(result *types.TrendAnalysisResult, niche string, now time.Time) (*RenderedMessage, error) {
	scope := scopeTitle(niche)
	subject := fmt.Sprintf("TrendScan SEO: %s (%d тем) - %s", scope, len(result.Topics), now.Format("2006-01-02"))

	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, emailData{
		Scope:       scope,
		GeneratedAt: now.Format("02.01.2006 15:04"),
		Result:      result,
	}); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    RenderText(result, niche, now),
		HTML:    htmlBuf.String(),
	}, nil
}

// LevelClass maps a competition or potential label to a badge colour.
func LevelClass(label string) string {
	switch label {
	case string(types.PotentialHigh), string(types.CompetitionHigh):
		return "high"
	case string(types.PotentialMedium), string(types.CompetitionMedium):
		return "medium"
	case string(types.PotentialLow), string(types.CompetitionLow):
		return "low"
	default:
		return "unknown"
	}
}
