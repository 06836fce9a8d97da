package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/voxstream/voxstream-backend/internal/config"
	"github.com/voxstream/voxstream-backend/internal/persist"
	"github.com/voxstream/voxstream-backend/internal/repository"
)

// ErrSummaryDisabled is returned when no API key is configured.
var ErrSummaryDisabled = errors.New("summary generation not configured")

// SummaryService generates short LLM summaries of stored session
// transcripts. Optional: disabled unless an API key is configured.
type SummaryService struct {
	client   *openai.Client
	model    string
	sessions repository.SessionRepository
}

// NewSummaryService creates a summary service; client stays nil without an
// API key.
func NewSummaryService(cfg config.OpenAIConfig, sessions repository.SessionRepository) *SummaryService {
	s := &SummaryService{
		model:    cfg.Model,
		sessions: sessions,
	}
	if cfg.APIKey != "" {
		s.client = openai.NewClient(cfg.APIKey)
	}
	return s
}

// Enabled reports whether summary generation is configured.
func (s *SummaryService) Enabled() bool {
	return s.client != nil
}

// SummarizeSession fetches a stored session and returns a short summary of
// its transcript.
func (s *SummaryService) SummarizeSession(ctx context.Context, id string) (string, error) {
	if s.client == nil {
		return "", ErrSummaryDisabled
	}
	if s.sessions == nil {
		return "", persist.ErrNotReady
	}

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return "", persist.ErrSessionNotFound
	}

	text := strings.TrimSpace(strings.ReplaceAll(sess.TranscriptHTML, "<br>", "\n"))
	if text == "" {
		return "", errors.New("session transcript is empty")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You summarize speech transcripts. Reply with 2-3 sentences in the transcript's language.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Summarize this transcript:\n\n" + text,
			},
		},
		MaxTokens: 200,
	})
	if err != nil {
		return "", fmt.Errorf("summary completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty summary response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
