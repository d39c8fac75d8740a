/*
Package report renders a trend analysis as a plain text export and as an
HTML email.
*/
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/shanehull/trendscan/internal/types"
)

const (
	generalScopeTitle = "Общие темы"
	generalScopeSlug  = "general"
	summaryHeading    = "ИТОГОВЫЙ АНАЛИТИЧЕСКИЙ БЛОК"
)

// RenderedMessage is a rendered report ready for delivery.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// RenderText produces the downloadable text report. Output depends only on
// its arguments.
func RenderText(result *types.TrendAnalysisResult, niche string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ОТЧЕТ ПО ТРЕНДАМ И SEO: %s\n", scopeTitle(niche)))
	sb.WriteString(fmt.Sprintf("Дата формирования: %s\n", now.Format("02.01.2006, 15:04:05")))
	sb.WriteString(strings.Repeat("=", 42) + "\n\n")

	for i, t := range result.Topics {
		seo := t.SeoAnalysis
		why := t.WhyAttractive

		sb.WriteString(fmt.Sprintf("%d. Название статьи: %s\n", i+1, plainText(t.Title)))
		sb.WriteString(fmt.Sprintf("   Ссылка: %s\n", t.Link))
		sb.WriteString(fmt.Sprintf("   Источник: %s\n", plainText(t.Source)))
		sb.WriteString(fmt.Sprintf("   Дата публикации: %s\n", plainText(t.PublishDate)))
		sb.WriteString(fmt.Sprintf("   Анонс: %s\n\n", plainText(t.Announcement)))

		sb.WriteString("   SEO-анализ:\n")
		sb.WriteString(fmt.Sprintf("   - Ключевые слова: %s\n", joinPlain(seo.Keywords, ", ")))
		sb.WriteString(fmt.Sprintf("   - Тип интента: %s\n", seo.Intent))
		sb.WriteString(fmt.Sprintf("   - Динамика: %s\n", plainText(seo.Dynamics)))
		sb.WriteString(fmt.Sprintf("   - Конкурентность: %s\n", seo.Competition))
		sb.WriteString(fmt.Sprintf("   - Потенциал: %s\n\n", seo.Potential))

		sb.WriteString("   Почему привлекательна:\n")
		sb.WriteString(fmt.Sprintf("   - Боли: %s\n", plainText(why.PainPoints)))
		sb.WriteString(fmt.Sprintf("   - Читаемость: %s\n", plainText(why.ReadabilityReason)))
		sb.WriteString(fmt.Sprintf("   - Дискуссия: %s\n", plainText(why.DiscussionPotential)))
		sb.WriteString(fmt.Sprintf("   - Коммерческий потенциал: %s\n", yesNo(why.CommercialPotential)))
		sb.WriteString(strings.Repeat("-", 42) + "\n\n")
	}

	if s := result.Summary; s != nil {
		sb.WriteString(summaryHeading + "\n")
		sb.WriteString(fmt.Sprintf("Доминирующие тренды: %s\n", joinPlain(s.DominantTrends, ", ")))
		sb.WriteString(fmt.Sprintf("Уровень конкуренции: %s\n", plainText(s.NicheCompetitionLevel)))
		sb.WriteString(fmt.Sprintf("Темы с макс. SEO-потенциалом: %s\n", joinPlain(s.MaxSeoPotentialTopics, ", ")))
		sb.WriteString(fmt.Sprintf("Рекомендации: %s\n", joinPlain(s.PriorityRecommendations, "; ")))
	}

	return sb.String()
}

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// FileName returns the export file name for a niche and date.
func FileName(niche string, now time.Time) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(niche), "-"), "-")
	if slug == "" {
		slug = generalScopeSlug
	}
	return fmt.Sprintf("trend-scan-%s-%s.txt", slug, now.Format("2006-01-02"))
}

func scopeTitle(niche string) string {
	if n := strings.TrimSpace(niche); n != "" {
		return n
	}
	return generalScopeTitle
}

func yesNo(b bool) string {
	if b {
		return "Да"
	}
	return "Нет"
}

func joinPlain(items []string, sep string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = plainText(s)
	}
	return strings.Join(out, sep)
}

// plainText decodes HTML entities and collapses whitespace. Angle brackets
// are kept as written since they are often part of the content.
func plainText(s string) string {
	if strings.Contains(s, "&") {
		s = html.UnescapeString(s)
	}
	return strings.Join(strings.Fields(s), " ")
}
