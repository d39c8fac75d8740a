package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shanehull/trendscan/internal/types"
)

// InvalidPayloadMessage is shown to the user when the model reply cannot be
// turned into a result.
const InvalidPayloadMessage = "Ошибка при обработке данных от нейросети. Получен некорректный JSON."

// ErrInvalidPayload matches every error returned by ParseResult.
var ErrInvalidPayload = errors.New(InvalidPayloadMessage)

// InvalidPayloadError carries the underlying decode or validation failure.
// Cause is for logs; Error always returns InvalidPayloadMessage.
type InvalidPayloadError struct {
	Cause error
}

func (e *InvalidPayloadError) Error() string { return InvalidPayloadMessage }

func (e *InvalidPayloadError) Is(target error) bool { return target == ErrInvalidPayload }

func invalid(format string, args ...any) error {
	return &InvalidPayloadError{Cause: fmt.Errorf(format, args...)}
}

// StripFences removes an optional leading ``` or ```json marker and an
// optional trailing ``` marker.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, "```"); ok {
		if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
			rest = rest[4:]
		}
		text = rest
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// Normalize strips fences and parses the reply.
func Normalize(text string) (*types.TrendAnalysisResult, error) {
	return ParseResult(StripFences(text))
}

// The wire structs use pointers so that a missing field can be told apart
// from an empty one.
type wireSeo struct {
	Keywords    *[]string `json:"keywords"`
	Intent      *string   `json:"intent"`
	Dynamics    *string   `json:"dynamics"`
	Competition *string   `json:"competition"`
	Potential   *string   `json:"potential"`
}

type wireAttractive struct {
	PainPoints          *string `json:"painPoints"`
	ReadabilityReason   *string `json:"readabilityReason"`
	DiscussionPotential *string `json:"discussionPotential"`
	CommercialPotential *bool   `json:"commercialPotential"`
}

type wireTopic struct {
	Title         *string         `json:"title"`
	Link          *string         `json:"link"`
	Source        *string         `json:"source"`
	PublishDate   *string         `json:"publishDate"`
	Announcement  *string         `json:"announcement"`
	SeoAnalysis   *wireSeo        `json:"seoAnalysis"`
	WhyAttractive *wireAttractive `json:"whyAttractive"`
}

type wireSummary struct {
	DominantTrends          *[]string `json:"dominantTrends"`
	NicheCompetitionLevel   *string   `json:"nicheCompetitionLevel"`
	MaxSeoPotentialTopics   *[]string `json:"maxSeoPotentialTopics"`
	PriorityRecommendations *[]string `json:"priorityRecommendations"`
}

type wireResult struct {
	Topics  *[]*wireTopic `json:"topics"`
	Summary *wireSummary  `json:"summary"`
}

// ParseResult decodes and validates a fence-free reply. It returns either a
// complete result or an error matching ErrInvalidPayload.
func ParseResult(text string) (*types.TrendAnalysisResult, error) {
	var w wireResult
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return nil, &InvalidPayloadError{Cause: err}
	}
	if w.Topics == nil {
		return nil, invalid("missing topics")
	}

	result := &types.TrendAnalysisResult{Topics: make([]types.Topic, 0, len(*w.Topics))}
	for i, wt := range *w.Topics {
		topic, err := convertTopic(wt)
		if err != nil {
			return nil, invalid("topic %d: %v", i+1, err)
		}
		result.Topics = append(result.Topics, topic)
	}

	if w.Summary != nil {
		summary, err := convertSummary(w.Summary)
		if err != nil {
			return nil, invalid("summary: %v", err)
		}
		result.Summary = summary
	}

	if err := result.Validate(); err != nil {
		return nil, &InvalidPayloadError{Cause: err}
	}
	return result, nil
}

func missing(fields map[string]bool) error {
	for _, name := range sortedKeys(fields) {
		if !fields[name] {
			return fmt.Errorf("missing %s", name)
		}
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func convertTopic(wt *wireTopic) (types.Topic, error) {
	if wt == nil {
		return types.Topic{}, errors.New("null topic")
	}
	if err := missing(map[string]bool{
		"title":         wt.Title != nil,
		"link":          wt.Link != nil,
		"source":        wt.Source != nil,
		"publishDate":   wt.PublishDate != nil,
		"announcement":  wt.Announcement != nil,
		"seoAnalysis":   wt.SeoAnalysis != nil,
		"whyAttractive": wt.WhyAttractive != nil,
	}); err != nil {
		return types.Topic{}, err
	}

	s := wt.SeoAnalysis
	if err := missing(map[string]bool{
		"seoAnalysis.keywords":    s.Keywords != nil,
		"seoAnalysis.intent":      s.Intent != nil,
		"seoAnalysis.dynamics":    s.Dynamics != nil,
		"seoAnalysis.competition": s.Competition != nil,
		"seoAnalysis.potential":   s.Potential != nil,
	}); err != nil {
		return types.Topic{}, err
	}

	a := wt.WhyAttractive
	if err := missing(map[string]bool{
		"whyAttractive.painPoints":          a.PainPoints != nil,
		"whyAttractive.readabilityReason":   a.ReadabilityReason != nil,
		"whyAttractive.discussionPotential": a.DiscussionPotential != nil,
		"whyAttractive.commercialPotential": a.CommercialPotential != nil,
	}); err != nil {
		return types.Topic{}, err
	}

	return types.Topic{
		Title:        *wt.Title,
		Link:         *wt.Link,
		Source:       *wt.Source,
		PublishDate:  *wt.PublishDate,
		Announcement: *wt.Announcement,
		SeoAnalysis: types.SeoAnalysis{
			Keywords:    *s.Keywords,
			Intent:      types.Intent(*s.Intent),
			Dynamics:    *s.Dynamics,
			Competition: types.Competition(*s.Competition),
			Potential:   types.Potential(*s.Potential),
		},
		WhyAttractive: types.AttractivenessRationale{
			PainPoints:          *a.PainPoints,
			ReadabilityReason:   *a.ReadabilityReason,
			DiscussionPotential: *a.DiscussionPotential,
			CommercialPotential: *a.CommercialPotential,
		},
	}, nil
}

func convertSummary(ws *wireSummary) (*types.AnalyticalSummary, error) {
	if err := missing(map[string]bool{
		"dominantTrends":          ws.DominantTrends != nil,
		"nicheCompetitionLevel":   ws.NicheCompetitionLevel != nil,
		"maxSeoPotentialTopics":   ws.MaxSeoPotentialTopics != nil,
		"priorityRecommendations": ws.PriorityRecommendations != nil,
	}); err != nil {
		return nil, err
	}
	return &types.AnalyticalSummary{
		DominantTrends:          *ws.DominantTrends,
		NicheCompetitionLevel:   *ws.NicheCompetitionLevel,
		MaxSeoPotentialTopics:   *ws.MaxSeoPotentialTopics,
		PriorityRecommendations: *ws.PriorityRecommendations,
	}, nil
}
