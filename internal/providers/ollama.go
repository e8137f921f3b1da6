package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaProvider runs generation against a local Ollama server via
// langchaingo. No API key involved; the alias may carry a model name,
// e.g. "ollama:llama3".
type OllamaProvider struct {
	alias string
	model string
	llm   llms.Model
}

func NewOllamaProvider(alias string) (*OllamaProvider, error) {
	baseURL := strings.TrimSpace(os.Getenv("RESEARCHMATE_OLLAMA_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := resolveOllamaModel(alias)
	llm, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(strings.TrimRight(baseURL, "/")))
	if err != nil {
		return nil, fmt.Errorf("initialize ollama: %w", err)
	}
	return &OllamaProvider{alias: alias, model: model, llm: llm}, nil
}

func (o *OllamaProvider) info() ProviderInfo {
	return ProviderInfo{Name: "ollama", Model: o.model, Key: o.alias}
}

func (o *OllamaProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	prompt := req.Prompt
	if len(req.Context) > 0 {
		prompt += "\n\nContext:\n" + strings.Join(req.Context, "\n\n")
	}
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "You are a research assistant. Respond with valid JSON only, no markdown fences."),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := o.llm.GenerateContent(ctx, content)
	if err != nil {
		return GenerateResponse{}, o.info(), fmt.Errorf("ollama generate failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return GenerateResponse{}, o.info(), fmt.Errorf("ollama returned no choices")
	}
	return GenerateResponse{Text: resp.Choices[0].Content}, o.info(), nil
}

func resolveOllamaModel(alias string) string {
	alias = strings.TrimSpace(alias)
	if alias != "" {
		return alias
	}
	if v := strings.TrimSpace(os.Getenv("RESEARCHMATE_OLLAMA_MODEL")); v != "" {
		return v
	}
	return "mistral"
}
