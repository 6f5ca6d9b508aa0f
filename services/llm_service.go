package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/config"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/prompts"

	openai "github.com/sashabaranov/go-openai"
)

const (
	maxExtractedTags = 5
	// Long queries are not worth the tokens
	maxTagQueryRunes = 300
)

// TagExtractor derives topic tags from a free-text search query
type TagExtractor interface {
	ExtractTags(ctx context.Context, query string) []string
}

// LLMService extracts search-query tags through an OpenAI-compatible chat API.
// A nil *LLMService is a valid extractor that never returns tags.
type LLMService struct {
	client   *openai.Client
	model    string
	log      *logger.Logger
	tagCache sync.Map // normalized query -> []string
}

// NewLLMService creates an LLM client for the configured provider.
// It returns nil, nil when the provider is "none".
func NewLLMService(cfg *config.Config, log *logger.Logger) (*LLMService, error) {
	var client *openai.Client

	switch strings.ToLower(cfg.LLMProvider) {
	case "", "none":
		return nil, nil
	case "openai":
		clientConfig := openai.DefaultConfig(cfg.OpenAIKey)
		client = openai.NewClientWithConfig(clientConfig)
	case "groq":
		clientConfig := openai.DefaultConfig(cfg.GroqKey)
		clientConfig.BaseURL = cfg.LLMBaseURL
		client = openai.NewClientWithConfig(clientConfig)
	default:
		return nil, fmt.Errorf("invalid LLM provider: %s", cfg.LLMProvider)
	}

	return &LLMService{
		client: client,
		model:  cfg.TagModel,
		log:    log.With("component", "LLMService"),
	}, nil
}

// ExtractTags returns up to five lowercase topic tags for query. Any failure
// yields no tags.
func (s *LLMService) ExtractTags(ctx context.Context, query string) []string {
	if s == nil || s.client == nil {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	key := strings.ToLower(query)
	if cached, ok := s.tagCache.Load(key); ok {
		return cached.([]string)
	}

	query = truncateRunes(query, maxTagQueryRunes)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.TagExtractionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0.0,
		MaxTokens:   60,
	})
	if err != nil {
		s.log.Warn("LLM tag extraction failed", "error", err)
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	tags, err := parseTagList(resp.Choices[0].Message.Content)
	if err != nil {
		s.log.Warn("Failed to parse LLM tag response", "error", err, "content", resp.Choices[0].Message.Content)
		return nil
	}

	s.tagCache.Store(key, tags)
	return tags
}

// truncateRunes cuts s to at most n characters without splitting one
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// parseTagList decodes a JSON string array, tolerating markdown code fences
func parseTagList(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw []string
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
		if len(tags) == maxExtractedTags {
			break
		}
	}
	return tags, nil
}
