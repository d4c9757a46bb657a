package timetable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"schedule-api/feature/timetable/models"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubReader is an in-memory Reader double.
type stubReader struct {
	updates []models.Update
	rooms   []models.Room
}

func (r *stubReader) ListUpdates(ctx context.Context) ([]models.Update, error) {
	return r.updates, nil
}

func (r *stubReader) UpdateByRef(ctx context.Context, ref string) (*models.Update, error) {
	for i := range r.updates {
		if r.updates[i].Hash == ref {
			return &r.updates[i], nil
		}
	}
	return nil, nil
}

func (r *stubReader) ListCollection(ctx context.Context, name string) (any, error) {
	if name == "rooms" {
		return r.rooms, nil
	}
	return []any{}, nil
}

func (r *stubReader) CollectionByRef(ctx context.Context, name, ref string) (any, error) {
	for _, room := range r.rooms {
		if room.Hash == ref {
			return room, nil
		}
	}
	return nil, nil
}

func (r *stubReader) CollectionByHashes(ctx context.Context, name string, hashes []string) (any, error) {
	if name != "rooms" {
		return &[]models.Room{}, nil
	}
	matched := []models.Room{}
	for _, room := range r.rooms {
		for _, h := range hashes {
			if room.Hash == h {
				matched = append(matched, room)
			}
		}
	}
	return &matched, nil
}

// stubArchive serves objects from a map, mimicking the lazy error
// surfacing of the real client.
type stubArchive struct {
	objects map[string][]byte
}

func (a *stubArchive) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return true, nil
}

func (a *stubArchive) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return nil
}

func (a *stubArchive) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return minio.UploadInfo{}, nil
}

func (a *stubArchive) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	raw, ok := a.objects[objectName]
	if !ok {
		return io.NopCloser(&failingReader{}), nil
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type failingReader struct{}

func (*failingReader) Read([]byte) (int, error) {
	return 0, errors.New("the specified key does not exist")
}

func newTestApp(reader *stubReader) *fiber.App {
	app := fiber.New()
	NewHandler(reader, zap.NewNop()).RegisterRoutes(app)
	return app
}

func TestHandler_ListUpdates(t *testing.T) {
	reader := &stubReader{
		updates: []models.Update{
			{ID: 1, Hash: "abc", Date: time.Now()},
		},
	}
	app := newTestApp(reader)

	resp, err := app.Test(httptest.NewRequest("GET", "/updates", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updates []models.Update
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updates))
	require.Len(t, updates, 1)
	assert.Equal(t, "abc", updates[0].Hash)
}

func TestHandler_GetUpdate_NotFound(t *testing.T) {
	app := newTestApp(&stubReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/updates/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandler_GetDiff_ResolvesEntities(t *testing.T) {
	reader := &stubReader{
		updates: []models.Update{{
			ID:   1,
			Hash: "u1",
			Diff: models.DiffListing{
				"rooms": {{Type: "+", Hash: "r1"}},
			},
		}},
		rooms: []models.Room{{ID: 7, Hash: "r1", Name: "WI-1c"}},
	}
	app := newTestApp(reader)

	resp, err := app.Test(httptest.NewRequest("GET", "/diff/u1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var diff map[string][]struct {
		Type  string       `json:"type"`
		Value *models.Room `json:"value"`
	}
	require.NoError(t, json.Unmarshal(body, &diff))
	require.Len(t, diff["rooms"], 1)
	assert.Equal(t, "+", diff["rooms"][0].Type)
	require.NotNil(t, diff["rooms"][0].Value)
	assert.Equal(t, "WI-1c", diff["rooms"][0].Value.Name)
}

func TestHandler_UpdateDetails(t *testing.T) {
	reader := &stubReader{
		updates: []models.Update{{
			ID:   1,
			Hash: "u1",
			Data: models.HashListing{"rooms": {"r1"}},
		}},
		rooms: []models.Room{{ID: 7, Hash: "r1", Name: "WI-1c"}},
	}
	app := newTestApp(reader)

	resp, err := app.Test(httptest.NewRequest("GET", "/updates/details/u1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var details map[string][]models.Room
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&details))
	require.Len(t, details["rooms"], 1)
	assert.Equal(t, "WI-1c", details["rooms"][0].Name)
}

func TestHandler_GetEntity(t *testing.T) {
	reader := &stubReader{
		rooms: []models.Room{{ID: 7, Hash: "r1", Name: "WI-1c"}},
	}
	app := newTestApp(reader)

	t.Run("Found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/rooms/r1", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var room models.Room
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&room))
		assert.Equal(t, uint(7), room.ID)
	})

	t.Run("Not Found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/rooms/missing", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandler_GetFeed(t *testing.T) {
	app := fiber.New()
	handler := NewHandler(&stubReader{}, zap.NewNop()).WithArchive(&stubArchive{
		objects: map[string][]byte{
			"feeds/abc123.xml": []byte("<conversation></conversation>"),
		},
	}, "schedule-feeds")
	handler.RegisterRoutes(app)

	t.Run("Found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/feeds/abc123", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/xml", resp.Header.Get(fiber.HeaderContentType))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "<conversation></conversation>", string(body))
	})

	t.Run("Missing Object", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/feeds/missing", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandler_GetFeed_ArchiveDisabled(t *testing.T) {
	app := newTestApp(&stubReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/feeds/abc123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandler_Info(t *testing.T) {
	app := newTestApp(&stubReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
