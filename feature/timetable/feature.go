package timetable

import (
	"schedule-api/core/storage"
	"schedule-api/feature/timetable/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature bundles the timetable read API for the feature loader.
type Feature struct {
	handler *Handler
}

// NewFeature creates the timetable feature.
func NewFeature(reader store.Reader, log *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(reader, log)}
}

// WithArchive exposes archived raw feed documents on the read API.
func (f *Feature) WithArchive(client storage.Client, bucket string) *Feature {
	f.handler.WithArchive(client, bucket)
	return f
}

// Name returns the feature identifier.
func (f *Feature) Name() string {
	return "timetable"
}

// IsEnabled reports whether the feature should be loaded.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
