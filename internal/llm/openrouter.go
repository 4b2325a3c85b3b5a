package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider returns an OpenAI-compatible provider pointed at
// OpenRouter. Model IDs are vendor-qualified ("google/gemini-2.0-flash-001")
// and passed through untouched. Requests carry OpenRouter's app
// attribution headers.
func NewOpenRouterProvider(apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	client := &http.Client{Transport: attribution{
		base: http.DefaultTransport,
		headers: map[string]string{
			"HTTP-Referer": "https://github.com/abhisek/fluenz",
			"X-Title":      "fluenz",
		},
	}}
	return newOpenAICompatible(apiKey, model, baseURL, client), nil
}

// attribution adds fixed headers to every request.
type attribution struct {
	base    http.RoundTripper
	headers map[string]string
}

func (a attribution) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	for k, v := range a.headers {
		r.Header.Set(k, v)
	}
	return a.base.RoundTrip(r)
}
