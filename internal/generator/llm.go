package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goflyer/internal/cache"
	"github.com/hyperifyio/goflyer/internal/flyer"
	"github.com/hyperifyio/goflyer/internal/llm"
)

const systemMessage = "You are a real estate copywriter. Respond with strict JSON only, no narration. " +
	"The JSON schema is {\"title\": string, \"subtitle\": string, \"features\": string[], \"details\": string[], \"callToAction\": string}. " +
	"The title names the home, the subtitle its location. Features are short labels such as \"3 Bedrooms\". " +
	"Details are one descriptive sentence fragment per feature. Use only facts present in the description."

// LLM asks an OpenAI-compatible chat model for flyer JSON.
type LLM struct {
	Client      llm.Client
	Model       string
	Temperature float32
	Cache       cache.Store
	Verbose     bool
	// CacheOnly returns from cache and fails fast on a miss.
	CacheOnly bool
}

func (g *LLM) Name() string { return string(flyer.SourceLLM) }

// Generate implements Generator. Any transport, parse or content problem is
// returned as an error so the caller can fall back.
func (g *LLM) Generate(ctx context.Context, description string) (flyer.Result, error) {
	if g.Client == nil || strings.TrimSpace(g.Model) == "" {
		return flyer.Result{}, ErrNotConfigured
	}
	user := buildUserPrompt(description)
	key := cache.KeyFrom(g.Model, systemMessage+"\n\n"+user)
	if g.Cache != nil {
		raw, ok, err := g.Cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("stage", "cache").Msg("flyer cache read failed")
		}
		if ok {
			var c flyer.Content
			if err := json.Unmarshal(raw, &c); err == nil && c.Complete() {
				return flyer.Result{Success: true, Data: c, Source: flyer.SourceCache}, nil
			}
		}
	}
	if g.CacheOnly {
		return flyer.Result{}, errors.New("llm cache-only: not found")
	}
	if g.Verbose {
		log.Debug().Str("stage", "generate").Str("model", g.Model).Int("system_len", len(systemMessage)).Int("user_len", len(user)).Msg("flyer prompt")
	}
	temp := g.Temperature
	if temp == 0 {
		temp = 0.2
	}
	resp, err := g.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temp,
		N:           1,
	})
	if err != nil {
		return flyer.Result{}, fmt.Errorf("llm call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return flyer.Result{}, errors.New("no choices")
	}
	c, err := parseContent(resp.Choices[0].Message.Content)
	if err != nil {
		return flyer.Result{}, err
	}
	if g.Cache != nil {
		if b, err := json.Marshal(c); err == nil {
			if err := g.Cache.Save(ctx, key, b); err != nil {
				log.Warn().Err(err).Msg("flyer cache save failed")
			}
		}
	}
	return flyer.Result{Success: true, Data: c, Source: flyer.SourceLLM}, nil
}

func buildUserPrompt(description string) string {
	var sb strings.Builder
	sb.WriteString("Flyer type: real_estate_flyer")
	sb.WriteString("\nProperty description:\n")
	sb.WriteString(strings.TrimSpace(description))
	return sb.String()
}

// parseContent decodes model output into normalized content. The payload may
// be bare JSON, fenced in a markdown code block, or surrounded by prose.
func parseContent(raw string) (flyer.Content, error) {
	var c flyer.Content
	s := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		inner := extractJSONObject(s)
		if inner == "" {
			return flyer.Content{}, fmt.Errorf("parse flyer json: %w", err)
		}
		if err := json.Unmarshal([]byte(inner), &c); err != nil {
			return flyer.Content{}, fmt.Errorf("parse flyer json: %w", err)
		}
	}
	c = normalize(c)
	if !c.Complete() {
		return flyer.Content{}, ErrIncomplete
	}
	return c, nil
}

// extractJSONObject returns the first balanced {...} span in s, skipping
// braces inside string literals.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func normalize(c flyer.Content) flyer.Content {
	c.Title = strings.TrimSpace(c.Title)
	c.Subtitle = strings.TrimSpace(c.Subtitle)
	c.CallToAction = strings.TrimSpace(c.CallToAction)
	if c.CallToAction == "" {
		c.CallToAction = flyer.CallToAction
	}
	c.Features = cleanLines(c.Features, "")
	c.Details = cleanLines(c.Details, "• ")
	return c
}

func cleanLines(in []string, prefix string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if prefix != "" {
			s = strings.TrimSpace(strings.TrimLeft(s, "•-* "))
		}
		if s == "" {
			continue
		}
		out = append(out, prefix+s)
	}
	return out
}
