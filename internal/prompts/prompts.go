package prompts

import (
	"fmt"
	"strings"
)

// Style boosters appended to generated image prompts.
const (
	BoosterBase            = "Professional floral photography, 8k resolution, highly detailed, soft cinematic lighting, depth of field, photorealistic, masterpiece, elegant background."
	BoosterEnhancedQuality = "Award-winning botanical photography, tack-sharp focus on blooms with creamy bokeh background, natural color grading, subtle rim lighting highlighting petal translucency, commercial floristry portfolio."
	BoosterTextureDetail   = "Macro-level detail on petal veins and dewdrops, crisp leaf edges, visible flower anthers and pistils, natural imperfections adding authenticity"
)

// LanguageName maps a stored language code to the name used in prompts.
func LanguageName(code string) string {
	if strings.EqualFold(code, "zh") {
		return "Simplified Chinese"
	}
	return "English"
}

// RequestSummary carries the design request fields that feed the prompts.
type RequestSummary struct {
	Occasion        string
	Recipient       string
	Style           string
	Budget          float64
	Requirements    string
	School          string
	Technique       string
	ProportionRule  string
	Seasonality     string
	CulturalContext string
}

// BudgetGuidance returns the complexity tier text for a budget. Tier
// boundaries are 200/500/1000/2000, inclusive at each upper bound.
func BudgetGuidance(budget float64) string {
	switch {
	case budget <= 200:
		return "SIMPLE design: 3-5 stems total, 2-3 flower types, economical choices."
	case budget <= 500:
		return "STANDARD design: 8-15 stems total, 3-5 flower types, balanced mix."
	case budget <= 1000:
		return "PREMIUM design: 15-25 stems total, 4-6 flower types, include premium flowers."
	case budget <= 2000:
		return "LUXURY design: 25-40 stems total, 5-8 flower types, prioritize premium flowers."
	default:
		return "GRAND LUXURY design: 40+ stems total, 6-10 flower types, use the most premium flowers available."
	}
}

// DesignSystemPrompt composes the system instruction embedding the current
// inventory listing and the house design philosophies.
func DesignSystemPrompt(inventoryListing, language string) string {
	return fmt.Sprintf(`You are a master florist with profound knowledge of Eastern and Western floral arts.
Design a stunning arrangement based on the user request and available inventory.

# Design Philosophies
- Western (Romantic/English): Emphasize mass, symmetry or abundance. Use main flowers + fillers + foliage.
- Eastern (Zen/Ikenobo): Emphasize line, negative space (Ma), and asymmetry. Less is more.
- Modern: Focus on texture, grouping, and bold color blocking.

# Process
1. Analyze the Request (Occasion, Recipient, Style).
2. Check Inventory constraints (Budget, Stock).
3. Formulate a creative concept.
4. Select materials (prioritize in-stock).

# Output Requirements
- Language: %s (except imagePrompt).
- Output strictly valid JSON.
- "imagePrompt" must be a highly detailed English visual description.

Inventory:
%s`, language, inventoryListing)
}

// DesignUserPrompt renders the structured request plus budget guidance and
// the expected JSON shape.
func DesignUserPrompt(req RequestSummary) string {
	school := orNone(req.School)
	technique := orNone(req.Technique)

	var extra strings.Builder
	if req.Requirements != "" {
		fmt.Fprintf(&extra, "- Requirements: %s\n", req.Requirements)
	}
	if req.ProportionRule != "" {
		fmt.Fprintf(&extra, "- Proportion Rule: %s\n", req.ProportionRule)
	}
	if req.Seasonality != "" {
		fmt.Fprintf(&extra, "- Seasonality: %s\n", req.Seasonality)
	}
	if req.CulturalContext != "" {
		fmt.Fprintf(&extra, "- Cultural Context: %s\n", req.CulturalContext)
	}

	return fmt.Sprintf(`Request:
- Occasion: %s
- Recipient: %s
- Style: %s
- Budget: %g
- Professional Mode: %s / %s
%s
**Budget Guidance**: %s

Return JSON:
{
  "reasoning": "Step-by-step design logic...",
  "flowerList": [{"flowerName": "name", "count": n, "reason": "reason"}],
  "estimatedCost": number,
  "title": "Title",
  "description": "Desc",
  "meaningText": "Meaning",
  "steps": ["Step 1", "Step 2"],
  "imagePrompt": "Detailed visual prompt"
}`,
		req.Occasion, req.Recipient, req.Style, req.Budget, school, technique,
		extra.String(), BudgetGuidance(req.Budget))
}

// VisionSystemPrompt composes the image-analysis instruction used when a
// reference photograph drives the design ("Visual Muse"). It asks for both a
// bill of materials constrained to inventory and an unconstrained visual
// reproduction prompt.
func VisionSystemPrompt(inventoryListing, language string) string {
	return fmt.Sprintf(`You are a world-class Floral Art Director, Botanical Photographer, and Master Florist.

**YOUR MISSION Analysis:**
1. **Practical Flower BOM**: A list of flowers from inventory to physically recreate the design.
2. **Visual Reproduction Prompt**: A structured prompt to generate an image that EXACTLY matches the reference.

**CRITICAL INSTRUCTION: MULTILINGUAL OUTPUT**
The visual analysis and image prompt generation must be done in English to ensure precision.
Review the user's language: %s.
For the Final JSON Output, the "title", "description", "meaningText", "steps", and "reason" (in flowerList) fields MUST be written in %s.
Everything else (including visualAnalysis and imagePrompt) should remain in English.

> **CRITICAL RULE**: The Visual Reproduction Prompt is NOT constrained by inventory. You may describe ANY materials (driftwood, willow, coral branches, etc.) that appear in the reference image, even if they're not in the flower inventory.

---

## PHASE 1: MANDATORY VISUAL ANALYSIS (Mental Scratchpad)

### A. SCALE DETECTION
Identify reference objects and estimate dimensions (Micro <30cm, Small 30-60cm, Medium 60-120cm, Large 1-3m, Monumental >3m).

### B. STRUCTURAL DNA
Analyze the geometry (Fan, Dome, Asymmetrical, Linear, Architectural).

### C. COLOR PALETTE
Identify dominant hues, accents, and color harmony (Monochromatic, Analogous, Complementary).

---

## PHASE 2: INVENTORY MAPPING
Map the visual elements to available inventory.
- If exact match exists (e.g., Red Rose), use it.
- If unavailable, find the best texture/color substitute from inventory.
- Only list flowers that physically exist in the 'Inventory' list below.

Inventory:
%s

---

## PROMPT CONSTRUCTION GUIDE
Construct 'imagePrompt' by combining:
1. [Scale/Type Declaration] (e.g. "A large architectural floral installation...")
2. [Structure Description]
3. [Central Focal Flowers]
4. [Supporting Elements]
5. [Setting/Lighting Context]
6. Style Booster: "%s %s"`,
		language, language, inventoryListing, BoosterEnhancedQuality, BoosterTextureDetail)
}

// VisionUserPrompt is the short user message accompanying the reference image.
func VisionUserPrompt() string {
	return "Analyze this image and create a floral design."
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return "None"
	}
	return value
}
