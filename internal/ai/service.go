package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/lectern-app/lectern/internal/entities"
)

// ErrUnsupportedType is returned when an analysis type has no prompt
// builder. Only fact_check and discussion can be generated; comments are
// authored by the reader.
var ErrUnsupportedType = fmt.Errorf("unsupported analysis type")

// Service runs analyses against the completion provider. Provider failures
// degrade into a textual response so a broken or slow provider never fails
// the surrounding request.
type Service struct {
	provider Provider
}

// NewService creates an analysis service over a completion provider.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// IsConfigured reports whether the underlying provider is usable.
func (s *Service) IsConfigured() bool {
	return s.provider.IsConfigured()
}

// Analyze builds the prompt for the requested analysis type and runs it.
// The prompt is returned alongside the response so callers can persist both.
// A provider failure is logged and returned as the response text, not as an
// error.
func (s *Service) Analyze(ctx context.Context, analysisType entities.AnalysisType, text, textContext string) (prompt, response string, err error) {
	switch analysisType {
	case entities.AnalysisTypeFactCheck:
		prompt = FactCheckPrompt(text, textContext)
	case entities.AnalysisTypeDiscussion:
		prompt = DiscussionPrompt(text, textContext)
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, analysisType)
	}

	response, genErr := s.provider.Generate(ctx, prompt)
	if genErr != nil {
		log.Printf("Completion provider failed (%s): %v", analysisType, genErr)
		return prompt, fmt.Sprintf("AI call failed: %v", genErr), nil
	}
	return prompt, response, nil
}
