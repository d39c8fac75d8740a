/*
Package types holds the trend analysis data model shared by the analysis
client, the report renderers and the web front-end.
*/
package types

import "fmt"

// MaxTopics is the upper bound on topics in one analysis result.
const MaxTopics = 10

type Intent string

const (
	IntentInformational Intent = "Информационный"
	IntentCommercial    Intent = "Коммерческий"
	IntentNavigational  Intent = "Навигационный"
	IntentTransactional Intent = "Транзакционный"
)

type Competition string

const (
	CompetitionLow    Competition = "Низкая"
	CompetitionMedium Competition = "Средняя"
	CompetitionHigh   Competition = "Высокая"
)

type Potential string

const (
	PotentialHigh   Potential = "Высокий"
	PotentialMedium Potential = "Средний"
	PotentialLow    Potential = "Низкий"
)

// Intents lists every accepted intent in schema order.
var Intents = []Intent{IntentInformational, IntentCommercial, IntentNavigational, IntentTransactional}

// Competitions lists every accepted competition level in schema order.
var Competitions = []Competition{CompetitionLow, CompetitionMedium, CompetitionHigh}

// Potentials lists every accepted potential level in schema order.
var Potentials = []Potential{PotentialHigh, PotentialMedium, PotentialLow}

func (i Intent) Valid() bool {
	for _, v := range Intents {
		if i == v {
			return true
		}
	}
	return false
}

func (c Competition) Valid() bool {
	for _, v := range Competitions {
		if c == v {
			return true
		}
	}
	return false
}

func (p Potential) Valid() bool {
	for _, v := range Potentials {
		if p == v {
			return true
		}
	}
	return false
}

type SeoAnalysis struct {
	Keywords    []string    `json:"keywords"`
	Intent      Intent      `json:"intent"`
	Dynamics    string      `json:"dynamics"`
	Competition Competition `json:"competition"`
	Potential   Potential   `json:"potential"`
}

// AttractivenessRationale explains why a topic is worth writing about.
type AttractivenessRationale struct {
	PainPoints          string `json:"painPoints"`
	ReadabilityReason   string `json:"readabilityReason"`
	DiscussionPotential string `json:"discussionPotential"`
	CommercialPotential bool   `json:"commercialPotential"`
}

type Topic struct {
	Title         string                  `json:"title"`
	Link          string                  `json:"link"`
	Source        string                  `json:"source"`
	PublishDate   string                  `json:"publishDate"`
	Announcement  string                  `json:"announcement"`
	SeoAnalysis   SeoAnalysis             `json:"seoAnalysis"`
	WhyAttractive AttractivenessRationale `json:"whyAttractive"`
}

type AnalyticalSummary struct {
	DominantTrends          []string `json:"dominantTrends"`
	NicheCompetitionLevel   string   `json:"nicheCompetitionLevel"`
	MaxSeoPotentialTopics   []string `json:"maxSeoPotentialTopics"`
	PriorityRecommendations []string `json:"priorityRecommendations"`
}

// TrendAnalysisResult is one complete analysis. Summary is nil when the
// service omitted it.
type TrendAnalysisResult struct {
	Topics  []Topic            `json:"topics"`
	Summary *AnalyticalSummary `json:"summary,omitempty"`
}

// Validate checks the enumerated fields and the topic count.
func (r *TrendAnalysisResult) Validate() error {
	if len(r.Topics) > MaxTopics {
		return fmt.Errorf("too many topics: %d (max %d)", len(r.Topics), MaxTopics)
	}
	for i, t := range r.Topics {
		if err := t.SeoAnalysis.Validate(); err != nil {
			return fmt.Errorf("topic %d: %w", i+1, err)
		}
	}
	return nil
}

func (s SeoAnalysis) Validate() error {
	if !s.Intent.Valid() {
		return fmt.Errorf("unknown intent %q", s.Intent)
	}
	if !s.Competition.Valid() {
		return fmt.Errorf("unknown competition %q", s.Competition)
	}
	if !s.Potential.Valid() {
		return fmt.Errorf("unknown potential %q", s.Potential)
	}
	return nil
}
