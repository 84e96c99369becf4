package design

// Status is the plan lifecycle state. The only transition is draft to
// completed, made exactly once by History.Execute.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

// Request is the structured input for one generation. It is treated as
// immutable once handed to the Orchestrator.
type Request struct {
	ID           string  `json:"id"`
	Occasion     string  `json:"occasion"`
	Recipient    string  `json:"recipient"`
	Style        string  `json:"style"`
	ColorPalette string  `json:"colorPalette,omitempty"`
	Format       string  `json:"format,omitempty"`
	Budget       float64 `json:"budget,omitempty"`
	Requirements string  `json:"requirements,omitempty"`

	// Professional mode
	School          string `json:"school,omitempty"`
	Technique       string `json:"technique,omitempty"`
	DesignMode      string `json:"designMode,omitempty"`
	ProportionRule  string `json:"proportionRule,omitempty"`
	Seasonality     string `json:"seasonality,omitempty"`
	CulturalContext string `json:"culturalContext,omitempty"`

	// Image preferences used by the Visual Muse flow
	ScalePreference string `json:"scalePreference,omitempty"`
	MoodPreference  string `json:"moodPreference,omitempty"`
	FormPreference  string `json:"formPreference,omitempty"`
	BackgroundStyle string `json:"backgroundStyle,omitempty"`
}

// FlowerItem is one bill-of-materials line in a plan. The name is a weak
// reference to inventory, resolved later by fuzzy matching.
type FlowerItem struct {
	FlowerName string  `json:"flowerName"`
	Count      int     `json:"count"`
	Reason     string  `json:"reason,omitempty"`
	UnitCost   float64 `json:"unitCost,omitempty"`
}

// Plan is a generated floral-arrangement proposal.
type Plan struct {
	ID           string       `json:"id"`
	RequestID    string       `json:"requestId"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	FlowerList   []FlowerItem `json:"flowerList"`
	Reasoning    string       `json:"reasoning,omitempty"`
	Steps        []string     `json:"steps"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	ImageKey     string       `json:"imageKey,omitempty"`
	ImageError   string       `json:"imageError,omitempty"`
	ImagePrompt  string       `json:"imagePrompt,omitempty"`
	MeaningText  string       `json:"meaningText"`
	TotalCost    float64      `json:"totalCost"`
	Profit       float64      `json:"profit"`
	ProfitMargin float64      `json:"profitMargin"`
	CreatedAt    int64        `json:"createdAt"`
	Requirements string       `json:"requirements,omitempty"`
	Rating       int          `json:"rating,omitempty"`
	Feedback     string       `json:"feedback,omitempty"`
	Status       Status       `json:"status"`
	ExecutedAt   int64        `json:"executedAt,omitempty"`
}
