package ai

import (
	"google.golang.org/genai"

	"github.com/shanehull/trendscan/internal/types"
)

const maxTopics = types.MaxTopics

func intentLabels() []string {
	out := make([]string, len(types.Intents))
	for i, v := range types.Intents {
		out[i] = string(v)
	}
	return out
}

func competitionLabels() []string {
	out := make([]string, len(types.Competitions))
	for i, v := range types.Competitions {
		out[i] = string(v)
	}
	return out
}

func potentialLabels() []string {
	out := make([]string, len(types.Potentials))
	for i, v := range types.Potentials {
		out[i] = string(v)
	}
	return out
}

func stringArray() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

// ResponseSchema returns the output schema the model must follow. A new
// value is built on every call.
func ResponseSchema() *genai.Schema {
	seoSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"keywords":    stringArray(),
			"intent":      {Type: genai.TypeString, Enum: intentLabels()},
			"dynamics":    {Type: genai.TypeString},
			"competition": {Type: genai.TypeString, Enum: competitionLabels()},
			"potential":   {Type: genai.TypeString, Enum: potentialLabels()},
		},
		Required: []string{"keywords", "intent", "dynamics", "competition", "potential"},
	}

	attractiveSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"painPoints":          {Type: genai.TypeString},
			"readabilityReason":   {Type: genai.TypeString},
			"discussionPotential": {Type: genai.TypeString},
			"commercialPotential": {Type: genai.TypeBoolean},
		},
		Required: []string{"painPoints", "readabilityReason", "discussionPotential", "commercialPotential"},
	}

	topicSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":         {Type: genai.TypeString},
			"link":          {Type: genai.TypeString},
			"source":        {Type: genai.TypeString},
			"publishDate":   {Type: genai.TypeString},
			"announcement":  {Type: genai.TypeString},
			"seoAnalysis":   seoSchema,
			"whyAttractive": attractiveSchema,
		},
		Required: []string{"title", "link", "source", "publishDate", "announcement", "seoAnalysis", "whyAttractive"},
	}

	summarySchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"dominantTrends":          stringArray(),
			"nicheCompetitionLevel":   {Type: genai.TypeString},
			"maxSeoPotentialTopics":   stringArray(),
			"priorityRecommendations": stringArray(),
		},
		Required: []string{"dominantTrends", "nicheCompetitionLevel", "maxSeoPotentialTopics", "priorityRecommendations"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topics": {
				Type:     genai.TypeArray,
				Items:    topicSchema,
				MaxItems: genai.Ptr[int64](maxTopics),
			},
			"summary": summarySchema,
		},
		Required: []string{"topics", "summary"},
	}
}
