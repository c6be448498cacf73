package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ksi-core/internal/classify"
	"ksi-core/internal/domain/entity"
	"ksi-core/internal/domain/repository"
)

// RateLimitError carries the wait hint alongside the domain error so
// the handler can set Retry-After.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string { return entity.ErrRateLimitExceeded.Error() }
func (e *RateLimitError) Unwrap() error { return entity.ErrRateLimitExceeded }

// ChatResult is the pipeline metadata for one answered request. The
// answer itself goes through the emit callback, chunk by chunk.
type ChatResult struct {
	Classification entity.Classification
	Sources        []SourceResult
	Cached         bool
}

// Orchestrator runs the full chat pipeline: rate limit, classify,
// fetch and assemble the data context, then stream the model answer.
// The semantic answer cache (embedder, answers, judge) is optional;
// when any of the three is nil the cache step is skipped entirely.
type Orchestrator struct {
	limiter   repository.RequestLimiter
	assembler *Assembler
	provider  repository.AIProvider
	embedder  repository.Embedder
	answers   repository.AnswerStore
	judge     repository.IntentJudge
	threshold float32
}

func NewOrchestrator(limiter repository.RequestLimiter, assembler *Assembler, provider repository.AIProvider) *Orchestrator {
	return &Orchestrator{
		limiter:   limiter,
		assembler: assembler,
		provider:  provider,
	}
}

// WithAnswerCache enables the semantic answer cache.
func (o *Orchestrator) WithAnswerCache(embedder repository.Embedder, answers repository.AnswerStore, judge repository.IntentJudge, threshold float32) *Orchestrator {
	o.embedder = embedder
	o.answers = answers
	o.judge = judge
	o.threshold = threshold
	return o
}

// Admit validates the request and spends one rate-limit slot. It runs
// before any response bytes are written so the handler can still
// answer with 400 or 429. The returned query is the trimmed final
// user message.
func (o *Orchestrator) Admit(ctx context.Context, req entity.ChatRequest, clientID string) (string, error) {
	query := strings.TrimSpace(req.LastUserMessage())
	if query == "" {
		return "", entity.ErrEmptyMessage
	}

	allowed, retryAfter, err := o.limiter.Allow(ctx, clientID)
	if err != nil {
		// The limiter already fails open on backend errors; anything
		// surfacing here is unexpected, but a broken limiter must not
		// take the service down.
		log.Printf("[CHAT] limiter error, allowing request: %v", err)
		allowed = true
	}
	if !allowed {
		return "", &RateLimitError{RetryAfter: retryAfter}
	}
	return query, nil
}

// Respond answers an admitted request, streaming chunks through emit.
// An error is only returned when nothing was emitted yet; once chunks
// are on the wire, upstream failures degrade into an apology chunk
// because the response status has already been sent.
func (o *Orchestrator) Respond(ctx context.Context, req entity.ChatRequest, query string, emit func(chunk string) error) (*ChatResult, error) {
	classification := classify.Classify(query)
	required := classify.SourcesFor(classification.Category)
	log.Printf("[CHAT] category=%s confidence=%.2f sources=%d", classification.Category, classification.Confidence, len(required))

	contextStr, sources := o.assembler.Assemble(ctx, required, query)

	profile := entity.UserProfile{}
	if req.UserProfile != nil {
		profile = *req.UserProfile
	}
	profile = profile.Normalized()

	result := &ChatResult{Classification: classification, Sources: sources}

	if o.cacheEnabled() {
		if done := o.tryCachedAnswer(ctx, query, emit); done {
			result.Cached = true
			return result, nil
		}
	}

	system := BuildSystemPrompt(profile)
	turns := withContextTurn(req.Messages, contextStr, query, profile.Language)

	var answer strings.Builder
	streamErr := o.provider.Stream(ctx, system, turns, func(chunk string) error {
		answer.WriteString(chunk)
		return emit(chunk)
	})
	if streamErr != nil {
		log.Printf("[CHAT] stream failed after %d bytes: %v", answer.Len(), streamErr)
		if answer.Len() == 0 {
			return nil, fmt.Errorf("%w: %v", entity.ErrInternalServer, streamErr)
		}
		// Partial answer already delivered; close it out politely.
		apology := "\n\nEntschuldigung, die Antwort wurde unterbrochen. Bitte versuche es erneut."
		if profile.Language == entity.LanguageEnglish {
			apology = "\n\nSorry, the answer was interrupted. Please try again."
		}
		_ = emit(apology)
		return result, nil
	}

	if o.cacheEnabled() && answer.Len() > 0 {
		o.saveAnswer(query, answer.String())
	}
	return result, nil
}

func (o *Orchestrator) cacheEnabled() bool {
	return o.embedder != nil && o.answers != nil
}

// tryCachedAnswer looks up a semantically similar previous answer and
// streams it when the judge confirms the intent matches. Every failure
// falls through to the live model.
func (o *Orchestrator) tryCachedAnswer(ctx context.Context, query string, emit func(string) error) bool {
	vector, err := o.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		log.Printf("[CHAT] embedding failed, skipping answer cache: %v", err)
		return false
	}

	cachedQuery, cachedAnswer, err := o.answers.Search(ctx, vector, o.threshold)
	if err != nil || cachedAnswer == "" {
		return false
	}

	if o.judge != nil && !o.judge.IsMatch(ctx, query, cachedQuery) {
		log.Printf("[CHAT] answer cache hit rejected by intent check")
		return false
	}

	log.Printf("[CHAT] serving cached answer for similar query %q", cachedQuery)
	return emit(cachedAnswer) == nil
}

// saveAnswer writes the finished answer to the semantic cache in the
// background. The request context may be gone by the time this runs.
func (o *Orchestrator) saveAnswer(query, answer string) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		vector, err := o.embedder.CreateEmbedding(bgCtx, query)
		if err != nil {
			log.Printf("[CHAT] background embedding failed: %v", err)
			return
		}
		if err := o.answers.Save(bgCtx, query, answer, vector); err != nil {
			log.Printf("[CHAT] background answer save failed: %v", err)
		}
	}()
}

// withContextTurn returns the conversation with the final user turn
// replaced by the data-grounded version of the query. History turns
// stay untouched.
func withContextTurn(turns []entity.ConversationTurn, contextStr, query string, lang entity.Language) []entity.ConversationTurn {
	out := make([]entity.ConversationTurn, len(turns))
	copy(out, turns)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Role == "user" {
			out[i].Content = BuildUserMessage(contextStr, query, lang)
			break
		}
	}
	return out
}
