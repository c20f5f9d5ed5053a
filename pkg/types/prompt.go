package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/curacel/langfuse-go/pkg/errors"
)

// PromptType represents the type of a prompt.
type PromptType string

const (
	PromptTypeText PromptType = "text"
	PromptTypeChat PromptType = "chat"
)

// String returns the string representation of the prompt type.
func (p PromptType) String() string { return string(p) }

// ChatMessage represents a message in a chat prompt.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is a named template fetched from prompt management. Exactly one of
// Text or Messages is meaningful, selected by Type.
type Prompt struct {
	Name     string
	Version  int
	Type     PromptType
	Labels   []string
	Config   map[string]any
	Text     string
	Messages []ChatMessage
}

// NewTextPrompt creates a text prompt, typically used as a fallback.
func NewTextPrompt(name, text string) *Prompt {
	return &Prompt{Name: name, Type: PromptTypeText, Text: text}
}

// NewChatPrompt creates a chat prompt, typically used as a fallback.
func NewChatPrompt(name string, messages ...ChatMessage) *Prompt {
	return &Prompt{Name: name, Type: PromptTypeChat, Messages: messages}
}

type promptWire struct {
	Name    string          `json:"name"`
	Version int             `json:"version,omitempty"`
	Type    PromptType      `json:"type,omitempty"`
	Labels  []string        `json:"labels,omitempty"`
	Config  map[string]any  `json:"config,omitempty"`
	Prompt  json.RawMessage `json:"prompt"`
}

// UnmarshalJSON accepts the API shape where "prompt" is either a string or
// a list of chat messages.
func (p *Prompt) UnmarshalJSON(data []byte) error {
	var w promptWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Prompt{Name: w.Name, Version: w.Version, Type: w.Type, Labels: w.Labels, Config: w.Config}

	raw := bytes.TrimSpace(w.Prompt)
	switch {
	case len(raw) == 0 || string(raw) == "null":
	case raw[0] == '[':
		if err := json.Unmarshal(raw, &p.Messages); err != nil {
			return fmt.Errorf("decode chat prompt: %w", err)
		}
		p.Type = PromptTypeChat
	default:
		if err := json.Unmarshal(raw, &p.Text); err != nil {
			return fmt.Errorf("decode text prompt: %w", err)
		}
		if p.Type == "" {
			p.Type = PromptTypeText
		}
	}
	return nil
}

// MarshalJSON writes the API shape.
func (p Prompt) MarshalJSON() ([]byte, error) {
	w := promptWire{Name: p.Name, Version: p.Version, Type: p.Type, Labels: p.Labels, Config: p.Config}
	var err error
	if p.IsChat() {
		w.Prompt, err = json.Marshal(p.Messages)
	} else {
		w.Prompt, err = json.Marshal(p.Text)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// IsChat reports whether the prompt is a list of messages.
func (p *Prompt) IsChat() bool {
	return p.Type == PromptTypeChat || (p.Type == "" && len(p.Messages) > 0)
}

// IsEmpty reports whether the prompt has no content.
func (p *Prompt) IsEmpty() bool {
	return p == nil || (p.Text == "" && len(p.Messages) == 0)
}

// Raw returns the unrendered template; chat prompts are JSON encoded.
func (p *Prompt) Raw() string {
	if !p.IsChat() {
		return p.Text
	}
	b, err := json.Marshal(p.Messages)
	if err != nil {
		return ""
	}
	return string(b)
}

// String returns Raw.
func (p *Prompt) String() string {
	return p.Raw()
}

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Variables returns the distinct placeholder names in first-seen order.
func (p *Prompt) Variables() []string {
	var names []string
	seen := map[string]struct{}{}
	for _, content := range p.contents() {
		for _, m := range placeholderPattern.FindAllStringSubmatch(content, -1) {
			name := strings.TrimSpace(m[1])
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// Render substitutes {{ name }} placeholders, tolerating surrounding
// whitespace, and returns a rendered copy. Maps, slices and structs are
// JSON encoded. Every placeholder must have a variable, otherwise a
// MissingVariablesError lists what is missing and what was provided.
func (p *Prompt) Render(vars map[string]any) (*Prompt, error) {
	var missing []string
	for _, name := range p.Variables() {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		provided := make([]string, 0, len(vars))
		for k := range vars {
			provided = append(provided, k)
		}
		return nil, errors.NewMissingVariablesError(p.Name, missing, provided)
	}

	replacements := make(map[string]string, len(vars))
	for k, v := range vars {
		s, err := stringify(v)
		if err != nil {
			return nil, errors.NewValidationError("variables."+k, err.Error())
		}
		replacements[k] = s
	}
	replace := func(text string) string {
		if !strings.Contains(text, "{{") {
			return text
		}
		return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
			name := strings.TrimSpace(match[2 : len(match)-2])
			if r, ok := replacements[name]; ok {
				return r
			}
			return match
		})
	}

	out := *p
	if p.IsChat() {
		out.Messages = make([]ChatMessage, len(p.Messages))
		for i, msg := range p.Messages {
			msg.Content = replace(msg.Content)
			out.Messages[i] = msg
		}
	} else {
		out.Text = replace(p.Text)
	}
	return &out, nil
}

// Compile renders a text prompt and returns its text.
func (p *Prompt) Compile(vars map[string]any) (string, error) {
	rendered, err := p.Render(vars)
	if err != nil {
		return "", err
	}
	return rendered.Raw(), nil
}

func (p *Prompt) contents() []string {
	if !p.IsChat() {
		return []string{p.Text}
	}
	out := make([]string, len(p.Messages))
	for i, msg := range p.Messages {
		out[i] = msg.Content
	}
	return out
}

func stringify(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case fmt.Stringer:
		return val.String(), nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	}
	return fmt.Sprint(v), nil
}
