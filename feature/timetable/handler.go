package timetable

import (
	"io"

	"schedule-api/core/logger"
	"schedule-api/core/storage"
	"schedule-api/feature/timetable/snapshot"
	"schedule-api/feature/timetable/store"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Handler exposes the persisted entities and update history over HTTP.
// It only reads what the synchronization engine writes.
type Handler struct {
	reader store.Reader
	logger *zap.Logger

	// archive is nil when the feed archive is disabled.
	archive storage.Client
	bucket  string
}

// NewHandler creates the read API handler.
func NewHandler(reader store.Reader, log *zap.Logger) *Handler {
	return &Handler{reader: reader, logger: log}
}

// WithArchive enables serving archived raw feed documents.
func (h *Handler) WithArchive(client storage.Client, bucket string) *Handler {
	h.archive = client
	h.bucket = bucket
	return h
}

// RegisterRoutes registers the read API routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.HandleInfo)
	app.Get("/updates", h.HandleListUpdates)
	app.Get("/updates/details/:hash", h.HandleUpdateDetails)
	app.Get("/updates/:hash", h.HandleGetUpdate)
	app.Get("/diff/:hash", h.HandleGetDiff)
	app.Get("/feeds/:hash", h.HandleGetFeed)

	for _, name := range snapshot.Collections {
		name := name
		app.Get("/"+name, func(c *fiber.Ctx) error {
			return h.handleListCollection(c, name)
		})
		app.Get("/"+name+"/:hash", func(c *fiber.Ctx) error {
			return h.handleGetEntity(c, name)
		})
	}
}

// HandleInfo returns service metadata.
// @Summary Service info
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]any
// @Router / [get]
func (h *Handler) HandleInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "schedule-api",
		"license": "AGPL",
	})
}

// HandleListUpdates returns all updates, newest first.
// @Summary List updates
// @Tags updates
// @Produce json
// @Success 200 {array} models.Update
// @Router /updates [get]
func (h *Handler) HandleListUpdates(c *fiber.Ctx) error {
	updates, err := h.reader.ListUpdates(c.Context())
	if err != nil {
		return h.internalError(c, "List updates failed", err)
	}
	return c.JSON(updates)
}

// HandleGetUpdate returns one update by numeric id or hash.
// @Summary Get update
// @Tags updates
// @Produce json
// @Param hash path string true "Update id or hash"
// @Success 200 {object} models.Update
// @Failure 404 {object} map[string]string
// @Router /updates/{hash} [get]
func (h *Handler) HandleGetUpdate(c *fiber.Ctx) error {
	update, err := h.reader.UpdateByRef(c.Context(), c.Params("hash"))
	if err != nil {
		return h.internalError(c, "Get update failed", err)
	}
	if update == nil {
		return h.notFound(c)
	}
	return c.JSON(update)
}

// HandleUpdateDetails returns an update's entity listing resolved to full
// records.
// @Summary Get update details
// @Tags updates
// @Produce json
// @Param hash path string true "Update id or hash"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /updates/details/{hash} [get]
func (h *Handler) HandleUpdateDetails(c *fiber.Ctx) error {
	update, err := h.reader.UpdateByRef(c.Context(), c.Params("hash"))
	if err != nil {
		return h.internalError(c, "Get update failed", err)
	}
	if update == nil {
		return h.notFound(c)
	}

	details := fiber.Map{}
	for name, hashes := range update.Data {
		rows, err := h.reader.CollectionByHashes(c.Context(), name, hashes)
		if err != nil {
			return h.internalError(c, "Resolve update details failed", err)
		}
		details[name] = rows
	}
	return c.JSON(details)
}

// HandleGetDiff returns an update's diff with every entry's entity
// resolved.
// @Summary Get update diff
// @Tags updates
// @Produce json
// @Param hash path string true "Update id or hash"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /diff/{hash} [get]
func (h *Handler) HandleGetDiff(c *fiber.Ctx) error {
	update, err := h.reader.UpdateByRef(c.Context(), c.Params("hash"))
	if err != nil {
		return h.internalError(c, "Get update failed", err)
	}
	if update == nil {
		return h.notFound(c)
	}

	resolved := fiber.Map{}
	for name, entries := range update.Diff {
		hashes := make([]string, len(entries))
		for i, e := range entries {
			hashes[i] = e.Hash
		}

		rows, err := h.reader.CollectionByHashes(c.Context(), name, hashes)
		if err != nil {
			return h.internalError(c, "Resolve diff failed", err)
		}
		index := store.HashIndex(rows)

		out := make([]fiber.Map, len(entries))
		for i, e := range entries {
			out[i] = fiber.Map{
				"type":  e.Type,
				"value": index[e.Hash],
			}
		}
		resolved[name] = out
	}
	return c.JSON(resolved)
}

// HandleGetFeed returns the archived raw XML document of an update,
// keyed by snapshot hash. 404 unless the feed archive is enabled and
// holds the document.
// @Summary Get archived feed
// @Tags updates
// @Produce xml
// @Param hash path string true "Update hash"
// @Success 200 {string} string
// @Failure 404 {object} map[string]string
// @Router /feeds/{hash} [get]
func (h *Handler) HandleGetFeed(c *fiber.Ctx) error {
	if h.archive == nil {
		return h.notFound(c)
	}

	object := "feeds/" + c.Params("hash") + ".xml"
	reader, err := h.archive.GetObject(c.Context(), h.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return h.notFound(c)
	}
	defer reader.Close()

	// Minio surfaces a missing object on first read, not on open.
	raw, err := io.ReadAll(reader)
	if err != nil {
		return h.notFound(c)
	}

	c.Set(fiber.HeaderContentType, "application/xml")
	return c.Send(raw)
}

func (h *Handler) handleListCollection(c *fiber.Ctx, name string) error {
	rows, err := h.reader.ListCollection(c.Context(), name)
	if err != nil {
		return h.internalError(c, "List collection failed", err)
	}
	return c.JSON(rows)
}

func (h *Handler) handleGetEntity(c *fiber.Ctx, name string) error {
	row, err := h.reader.CollectionByRef(c.Context(), name, c.Params("hash"))
	if err != nil {
		return h.internalError(c, "Get entity failed", err)
	}
	if row == nil {
		return h.notFound(c)
	}
	return c.JSON(row)
}

func (h *Handler) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "not found",
	})
}

func (h *Handler) internalError(c *fiber.Ctx, msg string, err error) error {
	logger.WithRayID(h.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
