package design

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"floreboard/internal/inventory"
	"floreboard/internal/llm"
	"floreboard/internal/prompts"
	"floreboard/internal/settings"
	"floreboard/internal/storage"
)

// ErrResponseParse indicates the model reply did not match the plan schema.
var ErrResponseParse = errors.New("response did not match plan schema")

// Orchestrator turns a design request into a Plan by prompting the
// configured chat/vision model against the current inventory.
type Orchestrator struct {
	settings  *settings.Service
	inventory *inventory.Ledger
	store     storage.Store

	// explicit client timeouts; the transport default is never relied on
	ChatTimeout   time.Duration
	VisionTimeout time.Duration
}

// NewOrchestrator wires the orchestrator with its collaborators.
func NewOrchestrator(svc *settings.Service, ledger *inventory.Ledger, store storage.Store) *Orchestrator {
	return &Orchestrator{
		settings:      svc,
		inventory:     ledger,
		store:         store,
		ChatTimeout:   20 * time.Second,
		VisionTimeout: 60 * time.Second,
	}
}

// GeneratePlan asks the text model for an arrangement plan. The returned
// plan is a draft; profit fields stay zero.
func (o *Orchestrator) GeneratePlan(ctx context.Context, req Request) (Plan, error) {
	cfg, err := o.settings.Current(ctx)
	if err != nil {
		return Plan{}, err
	}
	if cfg.APIKey == "" {
		return Plan{}, llm.ErrMissingCredential
	}

	listing := o.inventory.PromptListing(cfg.LowStockThreshold)
	language := o.language(ctx)

	systemPrompt := prompts.DesignSystemPrompt(listing, language)
	userPrompt := prompts.DesignUserPrompt(summarize(req))

	client := llm.NewClient(cfg.APIKey, cfg.Endpoint, o.ChatTimeout)
	content, err := client.ChatCompletion(ctx, cfg.TextModel, systemPrompt, userPrompt)
	if err != nil {
		return Plan{}, err
	}

	return buildPlan(content, req)
}

// GeneratePlanFromImage asks the vision model to analyze a reference
// photograph and produce both an inventory-constrained bill of materials and
// an unconstrained reproduction prompt.
func (o *Orchestrator) GeneratePlanFromImage(ctx context.Context, imageJPEG []byte, req Request) (Plan, error) {
	cfg, err := o.settings.Current(ctx)
	if err != nil {
		return Plan{}, err
	}
	if cfg.APIKey == "" {
		return Plan{}, llm.ErrMissingCredential
	}
	if len(imageJPEG) == 0 {
		return Plan{}, fmt.Errorf("reference image is required")
	}

	listing := o.inventory.PromptListing(cfg.LowStockThreshold)
	language := o.language(ctx)

	systemPrompt := prompts.VisionSystemPrompt(listing, language)

	client := llm.NewClient(cfg.APIKey, cfg.Endpoint, o.VisionTimeout)
	content, err := client.VisionCompletion(ctx, cfg.VisionModel, systemPrompt, prompts.VisionUserPrompt(), imageJPEG)
	if err != nil {
		return Plan{}, err
	}

	return buildPlan(content, req)
}

func (o *Orchestrator) language(ctx context.Context) string {
	payload, err := o.store.GetSlot(ctx, storage.SlotLanguage)
	if err != nil {
		return prompts.LanguageName("")
	}
	return prompts.LanguageName(strings.Trim(string(payload), `"`))
}

func summarize(req Request) prompts.RequestSummary {
	return prompts.RequestSummary{
		Occasion:        req.Occasion,
		Recipient:       req.Recipient,
		Style:           req.Style,
		Budget:          req.Budget,
		Requirements:    req.Requirements,
		School:          req.School,
		Technique:       req.Technique,
		ProportionRule:  req.ProportionRule,
		Seasonality:     req.Seasonality,
		CulturalContext: req.CulturalContext,
	}
}

// planPayload is the JSON shape the model is instructed to return.
type planPayload struct {
	FlowerList []struct {
		FlowerName string `json:"flowerName"`
		Count      int    `json:"count"`
		Reason     string `json:"reason"`
	} `json:"flowerList"`
	Reasoning     string   `json:"reasoning"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	MeaningText   string   `json:"meaningText"`
	Steps         []string `json:"steps"`
	ImagePrompt   string   `json:"imagePrompt"`
	EstimatedCost float64  `json:"estimatedCost"`
}

func buildPlan(content string, req Request) (Plan, error) {
	payload, err := parsePlanPayload(content)
	if err != nil {
		return Plan{}, err
	}

	items := make([]FlowerItem, 0, len(payload.FlowerList))
	for _, item := range payload.FlowerList {
		items = append(items, FlowerItem{
			FlowerName: item.FlowerName,
			Count:      item.Count,
			Reason:     item.Reason,
		})
	}

	return Plan{
		ID:           uuid.NewString(),
		RequestID:    req.ID,
		Title:        payload.Title,
		Description:  payload.Description,
		FlowerList:   items,
		Reasoning:    payload.Reasoning,
		Steps:        payload.Steps,
		ImagePrompt:  payload.ImagePrompt,
		MeaningText:  payload.MeaningText,
		TotalCost:    payload.EstimatedCost,
		CreatedAt:    time.Now().Unix(),
		Requirements: req.Requirements,
		Status:       StatusDraft,
	}, nil
}

func parsePlanPayload(content string) (planPayload, error) {
	var payload planPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return planPayload{}, fmt.Errorf("%w: %v", ErrResponseParse, err)
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
			return planPayload{}, fmt.Errorf("%w: %v", ErrResponseParse, err)
		}
	}

	if payload.Title == "" || payload.ImagePrompt == "" || len(payload.FlowerList) == 0 {
		return planPayload{}, fmt.Errorf("%w: required fields missing", ErrResponseParse)
	}
	return payload, nil
}
