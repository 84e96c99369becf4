package design

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"floreboard/internal/events"
	"floreboard/internal/imagegen"
	"floreboard/internal/llm"
	"floreboard/internal/media"
	"floreboard/internal/settings"
)

const maxReferenceImageBytes = 8 * 1024 * 1024 // 8 MB

// Handler bundles dependencies for design endpoints.
type Handler struct {
	Orchestrator *Orchestrator
	History      *History
	Settings     *settings.Service
	Archiver     media.Archiver
	Events       *events.Broker

	validate *validator.Validate
}

// NewHandler constructs the design handler with request validation wired.
func NewHandler(o *Orchestrator, h *History, svc *settings.Service, archiver media.Archiver, broker *events.Broker) *Handler {
	return &Handler{
		Orchestrator: o,
		History:      h,
		Settings:     svc,
		Archiver:     archiver,
		Events:       broker,
		validate:     validator.New(),
	}
}

// GenerateRequest is the inbound payload for plan generation.
type GenerateRequest struct {
	Occasion     string  `json:"occasion" validate:"required"`
	Recipient    string  `json:"recipient" validate:"required"`
	Style        string  `json:"style" validate:"required"`
	ColorPalette string  `json:"colorPalette"`
	Format       string  `json:"format"`
	Budget       float64 `json:"budget" validate:"gte=0"`
	Requirements string  `json:"requirements"`

	School          string `json:"school"`
	Technique       string `json:"technique"`
	DesignMode      string `json:"designMode"`
	ProportionRule  string `json:"proportionRule"`
	Seasonality     string `json:"seasonality"`
	CulturalContext string `json:"culturalContext"`

	ScalePreference string `json:"scalePreference"`
	MoodPreference  string `json:"moodPreference"`
	FormPreference  string `json:"formPreference"`
	BackgroundStyle string `json:"backgroundStyle"`

	WithImage bool `json:"withImage"`
}

func (r GenerateRequest) toRequest() Request {
	return Request{
		ID:              uuid.NewString(),
		Occasion:        r.Occasion,
		Recipient:       r.Recipient,
		Style:           r.Style,
		ColorPalette:    r.ColorPalette,
		Format:          r.Format,
		Budget:          r.Budget,
		Requirements:    r.Requirements,
		School:          r.School,
		Technique:       r.Technique,
		DesignMode:      r.DesignMode,
		ProportionRule:  r.ProportionRule,
		Seasonality:     r.Seasonality,
		CulturalContext: r.CulturalContext,
		ScalePreference: r.ScalePreference,
		MoodPreference:  r.MoodPreference,
		FormPreference:  r.FormPreference,
		BackgroundStyle: r.BackgroundStyle,
	}
}

// List handles GET /api/designs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.History.List(r.Context()))
}

// Generate handles POST /api/designs/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var payload GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := payload.toRequest()
	h.publish(events.Event{PlanID: req.ID, Stage: events.StageGenerating})

	plan, err := h.Orchestrator.GeneratePlan(r.Context(), req)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}
	h.publish(events.Event{PlanID: plan.ID, Stage: events.StagePlanReady})

	if payload.WithImage {
		h.attachImage(r, &plan)
	}

	if err := h.History.Save(r.Context(), plan); err != nil {
		http.Error(w, "could not save design", http.StatusInternalServerError)
		return
	}
	h.publish(events.Event{PlanID: plan.ID, Stage: events.StageSaved})
	writeJSONStatus(w, http.StatusCreated, plan)
}

// GenerateFromImage handles POST /api/designs/generate-from-image with a
// multipart body carrying the reference photograph and a JSON request part.
func (h *Handler) GenerateFromImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReferenceImageBytes + (1 << 20)); err != nil {
		http.Error(w, fmt.Sprintf("could not parse form: %v", err), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image_file")
	if err != nil {
		http.Error(w, "image_file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, maxReferenceImageBytes+1))
	if err != nil {
		http.Error(w, "could not read file", http.StatusBadRequest)
		return
	}
	if len(imageData) == 0 || len(imageData) > maxReferenceImageBytes {
		http.Error(w, fmt.Sprintf("image must be between 1 byte and %d bytes", maxReferenceImageBytes), http.StatusBadRequest)
		return
	}

	var payload GenerateRequest
	if raw := r.FormValue("request"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			http.Error(w, "invalid request part", http.StatusBadRequest)
			return
		}
	}

	req := payload.toRequest()
	h.publish(events.Event{PlanID: req.ID, Stage: events.StageGenerating})

	plan, err := h.Orchestrator.GeneratePlanFromImage(r.Context(), imageData, req)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}
	h.publish(events.Event{PlanID: plan.ID, Stage: events.StagePlanReady})

	if payload.WithImage {
		h.attachImage(r, &plan)
	}

	if err := h.History.Save(r.Context(), plan); err != nil {
		http.Error(w, "could not save design", http.StatusInternalServerError)
		return
	}
	h.publish(events.Event{PlanID: plan.ID, Stage: events.StageSaved})
	writeJSONStatus(w, http.StatusCreated, plan)
}

// RenderImage handles POST /api/designs/{id}/image: generates (or retries)
// the preview for a saved plan.
func (h *Handler) RenderImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, err := h.History.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "design not found", http.StatusNotFound)
		return
	}
	if strings.TrimSpace(plan.ImagePrompt) == "" {
		http.Error(w, "design has no image prompt", http.StatusBadRequest)
		return
	}

	h.attachImage(r, &plan)
	if err := h.History.Save(r.Context(), plan); err != nil {
		http.Error(w, "could not save design", http.StatusInternalServerError)
		return
	}
	writeJSON(w, plan)
}

// Save handles PUT /api/designs/{id}: upserts the posted plan, the path a
// client uses to store rating and feedback edits.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var plan Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	plan.ID = chi.URLParam(r, "id")
	if strings.TrimSpace(plan.ID) == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.History.Save(r.Context(), plan); err != nil {
		http.Error(w, "could not save design", http.StatusInternalServerError)
		return
	}
	writeJSON(w, plan)
}

// Execute handles POST /api/designs/{id}/execute.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, err := h.History.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "design not found", http.StatusNotFound)
		return
	}

	executed, err := h.History.Execute(r.Context(), plan)
	if err != nil {
		http.Error(w, "could not execute design", http.StatusInternalServerError)
		return
	}
	writeJSON(w, executed)
}

// Delete handles DELETE /api/designs/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.History.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, "could not delete design", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Vocab handles GET /api/designs/vocab: the professional-mode vocabularies.
func (h *Handler) Vocab(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"schools":     Schools,
		"techniques":  Techniques,
		"proportions": Proportions,
		"seasons":     Seasons,
	})
}

// StreamEvents handles GET /api/events as server-sent events.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Events.Subscribe()
	defer h.Events.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// attachImage runs the configured image strategy for the plan's visual
// prompt and archives the result. Generation failure is recorded on the
// plan, never surfaced as a request error: the plan itself is still usable.
func (h *Handler) attachImage(r *http.Request, plan *Plan) {
	ctx := r.Context()
	h.publish(events.Event{PlanID: plan.ID, Stage: events.StageImagePending})

	cfg, err := h.Settings.Current(ctx)
	if err != nil {
		plan.ImageError = err.Error()
		h.publish(events.Event{PlanID: plan.ID, Stage: events.StageImageFailed, Detail: plan.ImageError})
		return
	}

	generator := imagegen.New(cfg)
	ref, err := generator.Generate(ctx, plan.ImagePrompt)
	if err != nil {
		plan.ImageError = err.Error()
		h.publish(events.Event{PlanID: plan.ID, Stage: events.StageImageFailed, Detail: plan.ImageError})
		return
	}

	plan.ImageURL = ref.URL
	plan.ImageError = ""

	if h.Archiver != nil {
		result, err := imagegen.Archive(ctx, h.Archiver, ref)
		switch {
		case errors.Is(err, media.ErrArchiverDisabled):
			// keep the provider URL only
		case err != nil:
			log.Printf("archive preview for %s: %v", plan.ID, err)
		default:
			plan.ImageKey = result.Key
			if result.URL != "" {
				plan.ImageURL = result.URL
			}
		}
	}

	h.publish(events.Event{PlanID: plan.ID, Stage: events.StageImageReady})
}

func (h *Handler) publish(evt events.Event) {
	if h.Events != nil {
		h.Events.Publish(evt)
	}
}

func (h *Handler) writeGenerationError(w http.ResponseWriter, err error) {
	var providerErr *llm.ProviderError
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		http.Error(w, "no API key configured; add one under settings", http.StatusPreconditionFailed)
	case errors.Is(err, ErrResponseParse):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.As(err, &providerErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	writeJSONStatus(w, http.StatusOK, payload)
}

func writeJSONStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}
