package usecase

import (
	"context"
	"log"

	"ksi-core/internal/domain/entity"
	"ksi-core/internal/domain/repository"
)

// FallbackProvider tries the primary model first and retries the
// fallback model when the primary fails. For streams the retry only
// happens while nothing was emitted yet; a mid-stream failure cannot
// be restarted without duplicating output.
type FallbackProvider struct {
	primary  repository.AIProvider
	fallback repository.AIProvider
}

func NewFallbackProvider(primary, fallback repository.AIProvider) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback}
}

func (p *FallbackProvider) Generate(ctx context.Context, system string, turns []entity.ConversationTurn) (string, error) {
	answer, err := p.primary.Generate(ctx, system, turns)
	if err == nil {
		return answer, nil
	}
	log.Printf("[MODEL] primary generate failed, trying fallback: %v", err)
	return p.fallback.Generate(ctx, system, turns)
}

func (p *FallbackProvider) Stream(ctx context.Context, system string, turns []entity.ConversationTurn, emit func(chunk string) error) error {
	emitted := false
	err := p.primary.Stream(ctx, system, turns, func(chunk string) error {
		emitted = true
		return emit(chunk)
	})
	if err == nil || emitted {
		return err
	}
	log.Printf("[MODEL] primary stream failed, trying fallback: %v", err)
	return p.fallback.Stream(ctx, system, turns, emit)
}
