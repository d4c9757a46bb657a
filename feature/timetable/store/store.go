package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"schedule-api/feature/timetable/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence contract the reconciler depends on. Inserts
// are idempotent on the hash unique index: duplicate content is a silent
// no-op, never an error.
type Store interface {
	// LatestUpdate returns the most recent update by date, or nil when the
	// store holds none yet.
	LatestUpdate(ctx context.Context) (*models.Update, error)
	// BulkInsert persists a slice of entity rows, ignoring duplicate hashes.
	BulkInsert(ctx context.Context, rows any) error
	// IDsByHash maps content hashes to the identifiers the store assigned
	// (or already held) for the given model's table.
	IDsByHash(ctx context.Context, model any, hashes []string) (map[string]uint, error)
	// CreateUpdate commits a new immutable update record.
	CreateUpdate(ctx context.Context, update *models.Update) error
}

// Reader is the read contract of the HTTP API.
type Reader interface {
	ListUpdates(ctx context.Context) ([]models.Update, error)
	UpdateByRef(ctx context.Context, ref string) (*models.Update, error)
	ListCollection(ctx context.Context, name string) (any, error)
	CollectionByRef(ctx context.Context, name, ref string) (any, error)
	CollectionByHashes(ctx context.Context, name string, hashes []string) (any, error)
}

// Gorm implements Store and Reader on a gorm connection.
type Gorm struct {
	db *gorm.DB
}

// New wraps a gorm connection.
func New(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates or updates the timetable schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (g *Gorm) LatestUpdate(ctx context.Context) (*models.Update, error) {
	var update models.Update
	err := g.db.WithContext(ctx).Order("date DESC").First(&update).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: latest update: %w", err)
	}
	return &update, nil
}

func (g *Gorm) BulkInsert(ctx context.Context, rows any) error {
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hash"}},
			DoNothing: true,
		}).
		Create(rows).Error
	if err != nil {
		return fmt.Errorf("store: bulk insert: %w", err)
	}
	return nil
}

func (g *Gorm) IDsByHash(ctx context.Context, model any, hashes []string) (map[string]uint, error) {
	ids := make(map[string]uint, len(hashes))
	if len(hashes) == 0 {
		return ids, nil
	}

	var rows []struct {
		ID   uint
		Hash string
	}
	err := g.db.WithContext(ctx).Model(model).
		Select("id", "hash").
		Where("hash IN ?", hashes).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: ids by hash: %w", err)
	}

	for _, row := range rows {
		ids[row.Hash] = row.ID
	}
	return ids, nil
}

func (g *Gorm) CreateUpdate(ctx context.Context, update *models.Update) error {
	if err := g.db.WithContext(ctx).Create(update).Error; err != nil {
		return fmt.Errorf("store: create update: %w", err)
	}
	return nil
}

func (g *Gorm) ListUpdates(ctx context.Context) ([]models.Update, error) {
	var updates []models.Update
	err := g.db.WithContext(ctx).Order("date DESC").Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("store: list updates: %w", err)
	}
	return updates, nil
}

func (g *Gorm) UpdateByRef(ctx context.Context, ref string) (*models.Update, error) {
	var update models.Update
	err := byRef(g.db.WithContext(ctx), ref).First(&update).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: update by ref: %w", err)
	}
	return &update, nil
}

func (g *Gorm) ListCollection(ctx context.Context, name string) (any, error) {
	rows, ok := collectionSlice(name)
	if !ok {
		return nil, fmt.Errorf("store: unknown collection %q", name)
	}
	if err := g.db.WithContext(ctx).Find(rows).Error; err != nil {
		return nil, fmt.Errorf("store: list %s: %w", name, err)
	}
	return rows, nil
}

func (g *Gorm) CollectionByRef(ctx context.Context, name, ref string) (any, error) {
	rows, ok := collectionSlice(name)
	if !ok {
		return nil, fmt.Errorf("store: unknown collection %q", name)
	}
	if err := byRef(g.db.WithContext(ctx), ref).Limit(1).Find(rows).Error; err != nil {
		return nil, fmt.Errorf("store: %s by ref: %w", name, err)
	}
	return firstOrNil(rows), nil
}

func (g *Gorm) CollectionByHashes(ctx context.Context, name string, hashes []string) (any, error) {
	rows, ok := collectionSlice(name)
	if !ok {
		return nil, fmt.Errorf("store: unknown collection %q", name)
	}
	if len(hashes) == 0 {
		return rows, nil
	}
	if err := g.db.WithContext(ctx).Where("hash IN ?", hashes).Find(rows).Error; err != nil {
		return nil, fmt.Errorf("store: %s by hashes: %w", name, err)
	}
	return rows, nil
}

// byRef matches a record by numeric identifier or content hash.
func byRef(tx *gorm.DB, ref string) *gorm.DB {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return tx.Where("id = ? OR hash = ?", id, ref)
	}
	return tx.Where("hash = ?", ref)
}

// collectionSlice returns a pointer to an empty model slice for a
// collection name.
func collectionSlice(name string) (any, bool) {
	switch name {
	case "rooms":
		return &[]models.Room{}, true
	case "titles":
		return &[]models.Title{}, true
	case "degrees":
		return &[]models.Degree{}, true
	case "specialities":
		return &[]models.Speciality{}, true
	case "subjects":
		return &[]models.Subject{}, true
	case "teachers":
		return &[]models.Teacher{}, true
	case "schedules":
		return &[]models.Schedule{}, true
	default:
		return nil, false
	}
}

// HashIndex builds a hash keyed lookup over a model slice returned by the
// collection queries.
func HashIndex(rows any) map[string]any {
	index := map[string]any{}
	switch v := rows.(type) {
	case *[]models.Room:
		for _, e := range *v {
			index[e.Hash] = e
		}
	case *[]models.Title:
		for _, e := range *v {
			index[e.Hash] = e
		}
	case *[]models.Degree:
		for _, e := range *v {
			index[e.Hash] = e
		}
	case *[]models.Speciality:
		for _, e := range *v {
			index[e.Hash] = e
		}
	case *[]models.Subject:
		for _, e := range *v {
			index[e.Hash] = e
		}
	case *[]models.Teacher:
		for _, e := range *v {
			index[e.Hash] = e
		}
	case *[]models.Schedule:
		for _, e := range *v {
			index[e.Hash] = e
		}
	}
	return index
}

// firstOrNil unwraps a single-row query result.
func firstOrNil(rows any) any {
	switch v := rows.(type) {
	case *[]models.Room:
		if len(*v) > 0 {
			return (*v)[0]
		}
	case *[]models.Title:
		if len(*v) > 0 {
			return (*v)[0]
		}
	case *[]models.Degree:
		if len(*v) > 0 {
			return (*v)[0]
		}
	case *[]models.Speciality:
		if len(*v) > 0 {
			return (*v)[0]
		}
	case *[]models.Subject:
		if len(*v) > 0 {
			return (*v)[0]
		}
	case *[]models.Teacher:
		if len(*v) > 0 {
			return (*v)[0]
		}
	case *[]models.Schedule:
		if len(*v) > 0 {
			return (*v)[0]
		}
	}
	return nil
}
