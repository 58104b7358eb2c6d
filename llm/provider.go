package llm

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/mentor/core"
)

// Provider describes an OpenAI-compatible backend.
type Provider struct {
	Name           string
	BaseURL        string // empty: go-openai default
	RequiresKey    bool
	SupportsEmbeds bool
}

var providers = map[string]Provider{
	core.ProviderOllama: {Name: core.ProviderOllama, BaseURL: "http://localhost:11434/v1", SupportsEmbeds: true},
	core.ProviderOpenAI: {Name: core.ProviderOpenAI, RequiresKey: true, SupportsEmbeds: true},
	core.ProviderGroq:   {Name: core.ProviderGroq, BaseURL: "https://api.groq.com/openai/v1", RequiresKey: true},
	core.ProviderGemini: {Name: core.ProviderGemini, BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai", RequiresKey: true, SupportsEmbeds: true},
}

var ErrUnknownProvider = errors.New("unknown LLM provider")

func GetProvider(name string) (Provider, error) {
	p, ok := providers[name]
	if !ok {
		return Provider{}, errors.Wrapf(ErrUnknownProvider, "%q (want one of %v)", name, ListProviders())
	}
	return p, nil
}

func ListProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// endpoint resolves the base URL and key of a provider, failing when a hosted provider has no key.
func endpoint(name, baseURL, apiKey string, embeds bool) (string, string, error) {
	p, err := GetProvider(name)
	if err != nil {
		return "", "", err
	}
	if embeds && !p.SupportsEmbeds {
		return "", "", errors.Errorf("%s does not serve embeddings", name)
	}
	if p.RequiresKey && apiKey == "" {
		return "", "", errors.Errorf("%s requires an API key (set %s)", name, core.ProviderKeyEnv(name))
	}
	if baseURL == "" {
		baseURL = p.BaseURL
	}
	return baseURL, apiKey, nil
}
