package merge

import (
	"pxf-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MergeRequest is the JSON body of a merge call.
type MergeRequest struct {
	// Base, Ours and Theirs are the raw document texts.
	Base   string `json:"base"`
	Ours   string `json:"ours"`
	Theirs string `json:"theirs"`
	// Choices maps codepoints (as strings) to resolution tokens.
	Choices map[string]string `json:"choices"`
	// Policy optionally overrides the configured default conflict policy
	// for this request (theirs, ours, base).
	Policy string `json:"policy"`
}

// Handler handles HTTP requests for merges.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the merge routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/merge")
	group.Post("/", h.HandleMerge)
	group.Get("/history", h.HandleHistory)
}

// HandleMerge merges the three revisions in the request body and returns the
// merged document together with the change report.
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	policy := h.service.policy
	if req.Policy != "" {
		if p := Policy(req.Policy); p.Valid() {
			policy = p
		} else {
			l.Warn("Ignoring unknown merge policy", zap.String("policy", req.Policy))
		}
	}

	merged, report := mergeDocuments(req.Base, req.Ours, req.Theirs, NormalizeChoices(req.Choices), policy)
	h.service.recordRun(c.Context(), "http", "", "", "", "", policy, report)

	l.Info("Merge completed",
		zap.Int("glyph_count", report.Summary.GlyphCount),
		zap.Int("conflicts", report.Summary.ChangedBothSides))

	return c.JSON(fiber.Map{
		"merged": merged,
		"report": report,
	})
}

// HandleHistory returns recent merge runs, newest first.
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	if h.service.history == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "history disabled",
		})
	}

	limit := c.QueryInt("limit", 20)
	runs, err := h.service.history.Recent(c.Context(), limit)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("History lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"runs": runs})
}
