/*
Package ai builds the trend analysis request, sends it to Gemini with Google
Search grounding and turns the reply into a validated result.
*/
package ai

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/shanehull/trendscan/internal/types"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-3-pro-preview"

// Generator sends one request and returns the raw text reply.
type Generator interface {
	Generate(ctx context.Context, req *AnalysisRequest) (string, error)
}

// GeminiConfig configures GeminiClient. BaseURL and HTTPClient are optional.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiClient is a Generator backed by the Gemini API.
type GeminiClient struct {
	cfg GeminiConfig
}

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &GeminiClient{cfg: cfg}
}

func (g *GeminiClient) Model() string {
	return g.cfg.Model
}

// Generate performs a single GenerateContent call. Errors from the SDK and
// the service are returned unchanged.
func (g *GeminiClient) Generate(ctx context.Context, req *AnalysisRequest) (string, error) {
	cc := &genai.ClientConfig{
		APIKey:     g.cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.cfg.HTTPClient,
	}
	if g.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.UserPrompt, genai.RoleUser),
	}

	var tools []*genai.Tool
	if req.GoogleSearch {
		tools = append(tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}

	resp, err := client.Models.GenerateContent(ctx, g.cfg.Model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
			Role:  "system",
		},
		ResponseMIMEType:  req.ResponseMIMEType,
		ResponseSchema:    req.Schema,
		Tools:             tools,
	})
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}

// Analyzer chains request building, generation and normalization.
type Analyzer struct {
	gen Generator
	log *zap.SugaredLogger
}

func NewAnalyzer(gen Generator, log *zap.SugaredLogger) *Analyzer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Analyzer{gen: gen, log: log}
}

// Analyze runs one analysis for the niche. Generator errors are returned
// as-is; unusable replies yield an error matching ErrInvalidPayload.
func (a *Analyzer) Analyze(ctx context.Context, niche string) (*types.TrendAnalysisResult, error) {
	req := BuildRequest(niche)
	a.log.Infow("starting trend analysis", "niche", req.Niche)

	text, err := a.gen.Generate(ctx, req)
	if err != nil {
		a.log.Errorw("analysis request failed", "niche", req.Niche, "error", err)
		return nil, err
	}
	a.log.Debugw("received analysis payload", "niche", req.Niche, "bytes", len(text))

	result, err := Normalize(text)
	if err != nil {
		var ipe *InvalidPayloadError
		if errors.As(err, &ipe) {
			a.log.Warnw("invalid analysis payload", "niche", req.Niche, "cause", ipe.Cause)
		}
		return nil, err
	}

	a.log.Infow("trend analysis complete", "niche", req.Niche, "topics", len(result.Topics), "summary", result.Summary != nil)
	return result, nil
}
