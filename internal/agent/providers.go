package agent

import "fmt"

// Provider is one supported model service: a fixed base URL and the model
// names selectable for it.
type Provider struct {
	Name    string
	BaseURL string
	Models  []string
}

var providers = []Provider{
	{
		Name:    "openai",
		BaseURL: "https://api.openai.com/v1",
		Models:  []string{"gpt-4o-mini", "gpt-3.5-turbo", "gpt-4o", "gpt-4.1-mini", "gpt-4.1"},
	},
	{
		Name:    "deepseek",
		BaseURL: "https://api.deepseek.com",
		Models:  []string{"deepseek-chat", "deepseek-reasoner"},
	},
}

// Providers returns the supported providers in presentation order.
func Providers() []Provider {
	out := make([]Provider, len(providers))
	copy(out, providers)
	return out
}

// LookupProvider resolves a provider by name.
func LookupProvider(name string) (Provider, error) {
	for _, p := range providers {
		if p.Name == name {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("unknown provider %q", name)
}

// ValidModel reports whether the model belongs to the provider's option set.
func (p Provider) ValidModel(model string) bool {
	for _, m := range p.Models {
		if m == model {
			return true
		}
	}
	return false
}

// DefaultModel returns the provider's first model option.
func (p Provider) DefaultModel() string {
	if len(p.Models) == 0 {
		return ""
	}
	return p.Models[0]
}
