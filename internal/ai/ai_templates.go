package ai

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeneralTrendsScope replaces the niche when the user leaves it empty.
const GeneralTrendsScope = "Общие тренды (бизнес, технологии, лайфстайл)"

const userPrompt = "Выполни глубокий анализ трендов и SEO-потенциала за последние 30 дней."

const systemInstructionTemplate = `
Ты — аналитическая система мониторинга актуальных тем и поискового спроса.
Твоя цель: найти до %d актуальных тем (не старше 30 дней) в нише: %s.

Используй Google Search для поиска данных в: Google Trends, Exploding Topics, Reddit, TGStat, новостных лентах.

ДЛЯ КАЖДОЙ ТЕМЫ:
1. Проверь наличие реального поискового спроса.
2. Определи интент (%s).
3. Оцени конкурентность и SEO-потенциал.

ВЕРНИ ОТВЕТ СТРОГО В JSON ФОРМАТЕ, соответствующем схеме.
Не оборачивай JSON в markdown и не добавляй пояснений.
`

// AnalysisRequest is everything sent to the model for one submission.
type AnalysisRequest struct {
	Niche             string
	SystemInstruction string
	UserPrompt        string
	Schema            *genai.Schema
	ResponseMIMEType  string
	GoogleSearch      bool
}

// BuildRequest composes the request for a niche. An empty niche asks for
// general trends.
func BuildRequest(niche string) *AnalysisRequest {
	niche = strings.TrimSpace(niche)
	return &AnalysisRequest{
		Niche:             niche,
		SystemInstruction: buildSystemInstruction(niche),
		UserPrompt:        userPrompt,
		Schema:            ResponseSchema(),
		ResponseMIMEType:  "application/json",
		GoogleSearch:      true,
	}
}

func buildSystemInstruction(niche string) string {
	scope := niche
	if scope == "" {
		scope = GeneralTrendsScope
	}
	return fmt.Sprintf(systemInstructionTemplate, maxTopics, scope, strings.Join(intentLabels(), ", "))
}
