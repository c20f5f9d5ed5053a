package langfuse

import (
	"context"
	"net/url"
	"strconv"

	"github.com/curacel/langfuse-go/pkg/errors"
	"github.com/curacel/langfuse-go/pkg/http"
	"github.com/curacel/langfuse-go/pkg/types"
)

// PromptsServiceKey is the circuit breaker key of the prompts endpoint.
const PromptsServiceKey = "prompts"

const promptsPath = "/api/public/v2/prompts/"

// PromptClient fetches prompts from prompt management.
type PromptClient struct {
	transport *http.Transport
	enabled   bool
	logger    StructuredLogger
}

// PromptOption configures Get.
type PromptOption func(*promptOptions)

type promptOptions struct {
	label    string
	version  int
	fallback *types.Prompt
}

// WithLabel fetches the version carrying label, e.g. "production".
func WithLabel(label string) PromptOption {
	return func(o *promptOptions) { o.label = label }
}

// WithPromptVersion fetches a specific version.
func WithPromptVersion(version int) PromptOption {
	return func(o *promptOptions) { o.version = version }
}

// WithFallback is returned when tracing is disabled, and when the fetch
// fails and the fallback is not empty.
func WithFallback(p *types.Prompt) PromptOption {
	return func(o *promptOptions) { o.fallback = p }
}

// WithFallbackText is WithFallback with a text prompt.
func WithFallbackText(text string) PromptOption {
	return func(o *promptOptions) { o.fallback = types.NewTextPrompt("", text) }
}

// Get fetches the prompt called name. When the client is disabled the
// fallback is returned without a network call. A failed fetch returns the
// fallback when one with content was given, otherwise the
// *errors.NetworkError. Render the result with Prompt.Render or Compile.
//
// Example:
//
//	p, err := client.Prompts().Get(ctx, "support-reply",
//	    langfuse.WithLabel("production"),
//	    langfuse.WithFallbackText("Answer {{question}} politely."))
//	text, err := p.Compile(map[string]any{"question": q})
func (c *PromptClient) Get(ctx context.Context, name string, opts ...PromptOption) (*types.Prompt, error) {
	o := &promptOptions{}
	for _, opt := range opts {
		opt(o)
	}
	fallback := c.fallbackFor(name, o.fallback)

	if !c.enabled {
		return fallback, nil
	}

	query := url.Values{}
	if o.label != "" {
		query.Set("label", o.label)
	}
	if o.version > 0 {
		query.Set("version", strconv.Itoa(o.version))
	}

	resp, err := c.transport.Send(ctx, &http.Request{
		Method:     "GET",
		Path:       promptsPath + url.PathEscape(name),
		Query:      query,
		ServiceKey: PromptsServiceKey,
	})
	if err != nil {
		if !fallback.IsEmpty() {
			c.logger.Warn("langfuse: prompt fetch failed, using fallback", "prompt", name, "error", err)
			return fallback, nil
		}
		return nil, err
	}

	var prompt types.Prompt
	if err := resp.JSON(&prompt); err != nil {
		if !fallback.IsEmpty() {
			return fallback, nil
		}
		return nil, errors.NewNetworkError(err)
	}
	if prompt.Name == "" {
		prompt.Name = name
	}
	if prompt.IsEmpty() && !fallback.IsEmpty() {
		return fallback, nil
	}
	return &prompt, nil
}

func (c *PromptClient) fallbackFor(name string, p *types.Prompt) *types.Prompt {
	if p == nil {
		return types.NewTextPrompt(name, "")
	}
	out := *p
	if out.Name == "" {
		out.Name = name
	}
	return &out
}
