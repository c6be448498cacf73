package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"ksi-core/internal/config"
	"ksi-core/internal/domain/entity"
	"ksi-core/internal/usecase"
)

type Handler struct {
	orchestrator *usecase.Orchestrator
	feed         *usecase.Feed
	cfg          *config.Config
}

func NewHandler(orch *usecase.Orchestrator, feed *usecase.Feed, cfg *config.Config) *Handler {
	return &Handler{orchestrator: orch, feed: feed, cfg: cfg}
}

// HandleChat admits the request, then streams the answer as
// server-sent events. The business errors map to HTTP codes here;
// after the stream starts, errors can only surface as SSE events.
func (h *Handler) HandleChat(c *fiber.Ctx) error {
	var req entity.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	query, err := h.orchestrator.Admit(c.Context(), req, clientID(c))
	if err != nil {
		var rle *usecase.RateLimitError
		switch {
		case errors.As(err, &rle):
			c.Set("Retry-After", strconv.Itoa(int(math.Ceil(rle.RetryAfter.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":               entity.ErrRateLimitExceeded.Error(),
				"retry_after_seconds": int(math.Ceil(rle.RetryAfter.Seconds())),
			})
		case errors.Is(err, entity.ErrEmptyMessage):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": entity.ErrInternalServer.Error()})
		}
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	// The stream writer runs after this handler returns; reqCtx stays
	// valid inside it and carries the client disconnect.
	reqCtx := c.Context()
	reqCtx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		result, err := h.orchestrator.Respond(reqCtx, req, query, func(chunk string) error {
			return writeEvent(w, "", chunkPayload{Content: chunk})
		})
		if err != nil {
			log.Printf("[API] chat failed before first chunk: %v", err)
			_ = writeEvent(w, "error", fiber.Map{"error": entity.ErrInternalServer.Error()})
			return
		}
		_ = writeEvent(w, "done", donePayload{
			Category:   string(result.Classification.Category),
			Confidence: result.Classification.Confidence,
			Cached:     result.Cached,
			Sources:    sourceStatuses(result.Sources),
		})
	}))
	return nil
}

// clientID identifies the caller for rate limiting: an explicit
// X-Client-ID header wins, otherwise the remote address.
func clientID(c *fiber.Ctx) string {
	if id := c.Get("X-Client-ID"); id != "" {
		return id
	}
	return c.IP()
}

type chunkPayload struct {
	Content string `json:"content"`
}

type donePayload struct {
	Category   string            `json:"category"`
	Confidence float64           `json:"confidence"`
	Cached     bool              `json:"cached"`
	Sources    map[string]string `json:"sources"`
}

func sourceStatuses(results []usecase.SourceResult) map[string]string {
	out := make(map[string]string, len(results))
	for _, r := range results {
		switch {
		case r.Skipped:
			out[string(r.ID)] = "skipped"
		case r.Section == "":
			out[string(r.ID)] = "empty"
		default:
			out[string(r.ID)] = "ok"
		}
	}
	return out
}

// writeEvent writes one SSE event and flushes it to the client. A
// flush error means the client went away, which aborts the stream.
func writeEvent(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

// HandleFeed serves the personalized news feed. maxResults is the
// documented size parameter; limit is accepted as an alias.
func (h *Handler) HandleFeed(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("maxResults"))
	if limit <= 0 {
		limit, _ = strconv.Atoi(c.Query("limit"))
	}
	resp := h.feed.Build(c.Context(), usecase.FeedQuery{
		Persona:      entity.Persona(c.Query("persona")),
		Category:     c.Query("category"),
		FavoriteTeam: c.Query("team"),
		Limit:        limit,
	})
	return c.Status(fiber.StatusOK).JSON(resp)
}

// HandleHealth reports liveness plus which optional sources are
// configured, so a glance shows why a section might be missing.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"league": h.cfg.League.Name,
		"season": h.cfg.League.Season,
		"sources": fiber.Map{
			"stats":        true, // free tier, no key needed
			"news_rss":     len(h.cfg.Feeds) > 0,
			"news_search":  h.cfg.HasBraveSearch(),
			"player_stats": h.cfg.HasAPIFootball(),
			"odds":         h.cfg.HasOddsAPI(),
			"answer_cache": h.cfg.HasQdrant(),
		},
	})
}
