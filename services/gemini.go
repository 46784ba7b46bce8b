package services

import (
	"context"
	"errors"
	"fmt"

	"egehub/config"
	"egehub/models"

	gai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"google.golang.org/genai"
)

// GeminiBackend talks to the Gemini API. Grading goes through the
// generative-ai-go SDK because it pins the response to a JSON schema;
// essay generation goes through google.golang.org/genai because grounded
// search citations are only exposed there.
type GeminiBackend struct {
	gradingClient    *gai.Client
	generationClient *genai.Client
	evaluationModel  string
	generationModel  string
}

// NewGeminiBackend builds both clients from the configured API key.
func NewGeminiBackend(ctx context.Context, cfg *config.Config) (*GeminiBackend, error) {
	gradingClient, err := gai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create grading client: %w", err)
	}

	clientConfig := &genai.ClientConfig{}
	if cfg.Gemini.ApiKey != "" {
		clientConfig.APIKey = cfg.Gemini.ApiKey
	}
	generationClient, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	return &GeminiBackend{
		gradingClient:    gradingClient,
		generationClient: generationClient,
		evaluationModel:  cfg.Gemini.EvaluationModel,
		generationModel:  cfg.Gemini.GenerationModel,
	}, nil
}

// evaluationSchema mirrors the grading contract: one score object per
// criterion, a total and overall feedback. The errors array is optional
// per criterion.
func evaluationSchema() *gai.Schema {
	scoreSchema := &gai.Schema{
		Type: gai.TypeObject,
		Properties: map[string]*gai.Schema{
			"score":   {Type: gai.TypeInteger},
			"comment": {Type: gai.TypeString},
			"errors": {
				Type: gai.TypeArray,
				Items: &gai.Schema{
					Type: gai.TypeObject,
					Properties: map[string]*gai.Schema{
						"text": {Type: gai.TypeString},
					},
					Required: []string{"text"},
				},
			},
		},
		Required: []string{"score", "comment"},
	}

	scoreProperties := make(map[string]*gai.Schema, len(models.CriterionOrder))
	required := make([]string, 0, len(models.CriterionOrder))
	for _, id := range models.CriterionOrder {
		scoreProperties[string(id)] = scoreSchema
		required = append(required, string(id))
	}

	return &gai.Schema{
		Type: gai.TypeObject,
		Properties: map[string]*gai.Schema{
			"scores": {
				Type:       gai.TypeObject,
				Properties: scoreProperties,
				Required:   required,
			},
			"totalScore":      {Type: gai.TypeInteger},
			"overallFeedback": {Type: gai.TypeString},
		},
		Required: []string{"scores", "totalScore", "overallFeedback"},
	}
}

// GradeEssay performs the single synchronous grading round trip and
// returns the raw model output for contract validation.
func (b *GeminiBackend) GradeEssay(ctx context.Context, prompt string) (string, error) {
	if b.gradingClient == nil {
		return "", errors.New("gemini client not initialized")
	}

	model := b.gradingClient.GenerativeModel(b.evaluationModel)
	model.SystemInstruction = &gai.Content{
		Parts: []gai.Part{gai.Text(evaluationSystemInstruction)},
	}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = evaluationSchema()

	resp, err := model.GenerateContent(ctx, gai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("model returned empty response")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(gai.Text); ok {
			out += string(text)
		}
	}
	if out == "" {
		return "", errors.New("model returned empty response")
	}
	return out, nil
}

// ComposeEssay asks the model to write a reference essay for the source
// text, with Google Search grounding. Citations are best-effort.
func (b *GeminiBackend) ComposeEssay(ctx context.Context, prompt string) (*models.GeneratedEssay, error) {
	if b.generationClient == nil {
		return nil, errors.New("gemini client not initialized")
	}

	generateConfig := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	resp, err := b.generationClient.Models.GenerateContent(ctx, b.generationModel, genai.Text(prompt), generateConfig)
	if err != nil {
		return nil, err
	}

	text := resp.Text()
	if text == "" {
		return nil, errors.New("model returned empty text")
	}

	essay := &models.GeneratedEssay{Text: text}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			essay.Sources = append(essay.Sources, models.EssaySource{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return essay, nil
}
