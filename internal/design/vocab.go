package design

// Professional-mode vocabularies surfaced to clients and echoed into the
// user prompt. Culture tags line up with inventory culture tags.

// School is a floral-art school or tradition.
type School struct {
	ID      string `json:"id"`
	Culture string `json:"culture"`
}

// Technique is an arranging technique.
type Technique struct {
	ID       string   `json:"id"`
	Cultures []string `json:"cultures"`
}

// Proportion is a proportion rule for an arrangement.
type Proportion struct {
	ID       string   `json:"id"`
	Cultures []string `json:"cultures"`
}

// Season is a seasonality hint for material selection.
type Season struct {
	ID       string   `json:"id"`
	Cultures []string `json:"cultures"`
}

var Schools = []School{
	{ID: "japanese_ikenobo", Culture: "japanese"},
	{ID: "japanese_ohara", Culture: "japanese"},
	{ID: "japanese_sogetsu", Culture: "japanese"},
	{ID: "chinese_literati", Culture: "chinese"},
	{ID: "chinese_zen", Culture: "chinese"},
	{ID: "western_biedermeier", Culture: "western"},
	{ID: "western_english", Culture: "western"},
	{ID: "fusion", Culture: "western"},
}

var Techniques = []Technique{
	{ID: "kenzan", Cultures: []string{"japanese"}},
	{ID: "spiral_hand_tied", Cultures: []string{"western"}},
	{ID: "parallel", Cultures: []string{"western", "japanese"}},
	{ID: "pave", Cultures: []string{"western"}},
	{ID: "cascade", Cultures: []string{"western", "chinese"}},
	{ID: "oasis", Cultures: []string{"western", "chinese", "japanese"}},
	{ID: "wiring", Cultures: []string{"western"}},
}

var Proportions = []Proportion{
	{ID: "7_5_3", Cultures: []string{"japanese"}},
	{ID: "golden_ratio", Cultures: []string{"western"}},
	{ID: "free", Cultures: []string{"japanese", "chinese", "western"}},
}

var Seasons = []Season{
	{ID: "spring", Cultures: []string{"japanese", "chinese", "western"}},
	{ID: "summer", Cultures: []string{"japanese", "chinese", "western"}},
	{ID: "autumn", Cultures: []string{"japanese", "chinese", "western"}},
	{ID: "winter", Cultures: []string{"japanese", "chinese", "western"}},
	{ID: "all", Cultures: []string{"japanese", "chinese", "western"}},
}
