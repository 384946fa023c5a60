package api

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pulsespark/engram/pkg/engine"
	"github.com/pulsespark/engram/pkg/memory"
)

type createRequest struct {
	UserID    string           `json:"user_id"`
	ProjectID string           `json:"project_id"`
	Text      string           `json:"text"`
	Embedding []float32        `json:"embedding"`
	Metadata  *memory.Metadata `json:"metadata"`
	Tags      []string         `json:"tags"`
}

type updateRequest struct {
	Text      *string          `json:"text"`
	Embedding []float32        `json:"embedding"`
	Metadata  *memory.Metadata `json:"metadata"`
	Tags      []string         `json:"tags"`
}

type bulkDeleteRequest struct {
	MemoryIDs []string `json:"memory_ids"`
}

type bulkDeleteResponse struct {
	Message        string `json:"message"`
	DeletedCount   int    `json:"deleted_count"`
	RequestedCount int    `json:"requested_count"`
}

// handleList serves both plain listing and search, depending on the presence
// of the search query parameter.
func (s *Server) handleList(c *fiber.Ctx) error {
	identity := identityFrom(c)

	mode, err := memory.ParseSearchMode(c.Query("search_type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}

	page, err := memory.NewPage(c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}

	in := engine.SearchInput{
		UserID:    c.Query("user_id", identity.UserID),
		ProjectID: c.Query("project_id"),
		Query:     c.Query("search"),
		Mode:      mode,
		Page:      page,
	}

	if raw := c.Query("similarity_threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: fmt.Sprintf("invalid similarity_threshold %q", raw)})
		}
		in.SimilarityThreshold = &threshold
	}

	out, err := s.engine.Search(c.Context(), identity.UserID, in)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(out)
}

func (s *Server) handleCreate(c *fiber.Ctx) error {
	identity := identityFrom(c)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "malformed request body"})
	}
	if req.UserID == "" {
		req.UserID = identity.UserID
	}

	item, err := s.engine.Create(c.Context(), identity.UserID, engine.CreateInput{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		Text:      req.Text,
		Embedding: req.Embedding,
		Metadata:  req.Metadata,
		Tags:      req.Tags,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (s *Server) handleGet(c *fiber.Ctx) error {
	identity := identityFrom(c)

	item, err := s.engine.Get(c.Context(), identity.UserID, c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(item)
}

func (s *Server) handleUpdate(c *fiber.Ctx) error {
	identity := identityFrom(c)

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "malformed request body"})
	}

	item, err := s.engine.Update(c.Context(), identity.UserID, c.Params("id"), engine.UpdateInput{
		Text:      req.Text,
		Embedding: req.Embedding,
		Metadata:  req.Metadata,
		Tags:      req.Tags,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(item)
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	identity := identityFrom(c)

	if err := s.engine.Delete(c.Context(), identity.UserID, c.Params("id")); err != nil {
		return s.writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleBulkDelete(c *fiber.Ctx) error {
	identity := identityFrom(c)

	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "malformed request body"})
	}

	result, err := s.engine.BulkDelete(c.Context(), identity.UserID, req.MemoryIDs)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(bulkDeleteResponse{
		Message:        fmt.Sprintf("Deleted %d memory items", result.Deleted),
		DeletedCount:   result.Deleted,
		RequestedCount: result.Requested,
	})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	identity := identityFrom(c)

	stats, err := s.engine.Stats(c.Context(), identity.UserID, engine.StatsInput{
		UserID:    c.Query("user_id", identity.UserID),
		ProjectID: c.Query("project_id"),
		DaysBack:  c.QueryInt("days_back", 0),
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(stats)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	health := s.engine.Health(c.Context(), s.config.Version)

	status := fiber.StatusOK
	if !health.Healthy() {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(health)
}
