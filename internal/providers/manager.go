package providers

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"researchmate/internal/config"
)

type NamedGenerator struct {
	Ref      ProviderRef
	Provider Generator
}

// Manager fans a generate call across the configured providers in preference
// order (mock always last) and applies a shared rate limit so a burst of
// analyses cannot hammer upstream APIs. It is itself a Generator.
type Manager struct {
	generators []NamedGenerator
	limiter    *rate.Limiter
}

func NewManager(cfg config.Config) (*Manager, error) {
	refs := ParseProviderList(cfg.Providers)
	m := &Manager{limiter: rate.NewLimiter(rate.Limit(cfg.GenerateRate), cfg.GenerateBurst)}
	for _, ref := range refs {
		p, err := buildProvider(ref)
		if err != nil {
			return nil, err
		}
		m.generators = append(m.generators, NamedGenerator{Ref: ref, Provider: p})
	}
	if len(m.generators) == 0 {
		m.generators = []NamedGenerator{{Ref: ProviderRef{Raw: "mock", Name: "mock"}, Provider: NewMockProvider()}}
	}
	return m, nil
}

func (m *Manager) Count() int {
	return len(m.generators)
}

// PreferredOrder lists provider indexes with real providers before mocks.
func (m *Manager) PreferredOrder() []int {
	n := len(m.generators)
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if strings.ToLower(m.generators[i].Ref.Name) != "mock" {
			out = append(out, i)
		}
	}
	for i := 0; i < n; i++ {
		if strings.ToLower(m.generators[i].Ref.Name) == "mock" {
			out = append(out, i)
		}
	}
	return out
}

// Generate walks the preferred order until a provider returns non-empty
// text. There is no automatic retry of a provider that failed; the next one
// in line is tried instead.
func (m *Manager) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return GenerateResponse{}, ProviderInfo{}, fmt.Errorf("generation rate wait: %w", err)
	}
	var (
		lastInfo ProviderInfo
		lastErr  error
	)
	for _, idx := range m.PreferredOrder() {
		g := m.generators[idx]
		resp, info, err := g.Provider.Generate(ctx, req)
		if err == nil && strings.TrimSpace(resp.Text) != "" {
			info.Name = g.Ref.Name
			return resp, info, nil
		}
		lastInfo = info
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("provider %s returned empty output", g.Ref.Raw)
		}
	}
	return GenerateResponse{}, lastInfo, fmt.Errorf("all providers failed: %w", lastErr)
}

func buildProvider(ref ProviderRef) (Generator, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(), nil
	case "gemini":
		return NewGeminiProvider(ref.KeyAlias), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias), nil
	case "ollama":
		return NewOllamaProvider(ref.KeyAlias)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
