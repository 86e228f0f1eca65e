package service_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/foundtag/internal/database"
	"github.com/mdouchement/foundtag/internal/enhancer"
	"github.com/mdouchement/foundtag/internal/lferror"
	"github.com/mdouchement/foundtag/internal/model"
	"github.com/mdouchement/foundtag/internal/qrlink"
	"github.com/mdouchement/foundtag/internal/server/service"
	"github.com/mdouchement/foundtag/internal/shortid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationExecute(t *testing.T) {
	db, encoder, cleanup := setupService(t)
	defer cleanup()

	reg := service.NewRegistration(db, enhancer.Noop{}, encoder, "http://x.lan", service.RegisterParams{
		OwnerName:    "  Alice  ",
		OwnerContact: " alice@x.com ",
		Description:  "  blue backpack  ",
	})
	require.NoError(t, reg.Execute(context.Background()))

	require.NotNil(t, reg.Item)
	assert.Len(t, reg.Item.ID, shortid.Length)
	assert.Equal(t, qrlink.Filename(reg.Item.ID), reg.QRCode)

	stored, err := db.FindItem(reg.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.OwnerName)
	assert.Equal(t, "alice@x.com", stored.OwnerContact)
	assert.Equal(t, "blue backpack", stored.Description)
	assert.Empty(t, stored.Messages)

	_, err = os.Stat(filepath.Join(encoder.Dir(), reg.QRCode))
	assert.NoError(t, err)
}

func TestRegistrationExecuteDistinctIdentifiers(t *testing.T) {
	db, encoder, cleanup := setupService(t)
	defer cleanup()

	params := service.RegisterParams{
		OwnerName:   "Alice",
		Description: "blue backpack",
	}

	first := service.NewRegistration(db, enhancer.Noop{}, encoder, "http://x.lan", params)
	require.NoError(t, first.Execute(context.Background()))
	second := service.NewRegistration(db, enhancer.Noop{}, encoder, "http://x.lan", params)
	require.NoError(t, second.Execute(context.Background()))

	assert.NotEqual(t, first.Item.ID, second.Item.ID)
}

func TestRegistrationExecuteBlankFields(t *testing.T) {
	db, encoder, cleanup := setupService(t)
	defer cleanup()

	reg := service.NewRegistration(db, enhancer.Noop{}, encoder, "http://x.lan", service.RegisterParams{})
	require.NoError(t, reg.Execute(context.Background()))

	stored, err := db.FindItem(reg.Item.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.OwnerName)
	assert.Empty(t, stored.OwnerContact)
	assert.Empty(t, stored.Description)
}

func TestRegistrationExecuteEnhancerFallback(t *testing.T) {
	db, encoder, cleanup := setupService(t)
	defer cleanup()

	// An enhancer whose collaborator is unreachable keeps the original text.
	broken := enhancer.New(enhancer.Config{APIKey: "secret42", Endpoint: "http://127.0.0.1:1"})

	reg := service.NewRegistration(db, broken, encoder, "http://x.lan", service.RegisterParams{
		Description: "blue backpack",
	})
	require.NoError(t, reg.Execute(context.Background()))

	stored, err := db.FindItem(reg.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, "blue backpack", stored.Description)
}

func TestRegistrationExecutePartialSuccess(t *testing.T) {
	db, encoder, cleanup := setupService(t)
	defer cleanup()

	// Break the asset directory so the PNG write fails after the insert.
	require.NoError(t, os.RemoveAll(encoder.Dir()))
	require.NoError(t, os.WriteFile(encoder.Dir(), []byte("not a directory"), 0o644))

	reg := service.NewRegistration(db, enhancer.Noop{}, encoder, "http://x.lan", service.RegisterParams{
		OwnerName:   "Alice",
		Description: "blue backpack",
	})
	require.NoError(t, reg.Execute(context.Background()))

	// The record persists without its code asset; the code can be
	// re-requested later for this id.
	require.NotNil(t, reg.Item)
	assert.Empty(t, reg.QRCode)

	stored, err := db.FindItem(reg.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, "blue backpack", stored.Description)
}

func TestRegistrationExecuteCollisionRetry(t *testing.T) {
	db, encoder, cleanup := setupService(t)
	defer cleanup()

	colliding := &collisionClient{Client: db, collisions: 1}

	reg := service.NewRegistration(colliding, enhancer.Noop{}, encoder, "http://x.lan", service.RegisterParams{
		Description: "blue backpack",
	})
	require.NoError(t, reg.Execute(context.Background()))

	assert.Equal(t, 2, colliding.attempts)
	require.NotNil(t, reg.Item)

	stored, err := db.FindItem(reg.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, "blue backpack", stored.Description)
}

func TestRegistrationExecuteCollisionExhausted(t *testing.T) {
	db, encoder, cleanup := setupService(t)
	defer cleanup()

	colliding := &collisionClient{Client: db, collisions: -1}

	reg := service.NewRegistration(colliding, enhancer.Noop{}, encoder, "http://x.lan", service.RegisterParams{
		Description: "blue backpack",
	})
	err := reg.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, lferror.Is(err, lferror.TagRegistrationFailed))
	assert.Nil(t, reg.Item)
	assert.Equal(t, 3, colliding.attempts)

	items, err := db.FindItems()
	require.NoError(t, err)
	assert.Empty(t, items)
}

// collisionClient reports an id collision for the first collisions create
// calls, every call when negative.
type collisionClient struct {
	database.Client
	collisions int
	attempts   int
}

func (c *collisionClient) CreateItem(item *model.Item) error {
	c.attempts++
	if c.collisions < 0 || c.attempts <= c.collisions {
		return storm.ErrAlreadyExists
	}
	return c.Client.CreateItem(item)
}

func TestRegistrationExecuteValidation(t *testing.T) {
	db, encoder, cleanup := setupService(t)
	defer cleanup()

	reg := service.NewRegistration(db, enhancer.Noop{}, encoder, "http://x.lan", service.RegisterParams{
		Description: strings.Repeat("x", 2001),
	})
	err := reg.Execute(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, lferror.StatusCode(err))
	assert.Nil(t, reg.Item)

	items, err := db.FindItems()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func setupService(t *testing.T) (database.Client, *qrlink.Encoder, func()) {
	db, err := database.StormOpen(filepath.Join(t.TempDir(), "foundtag.db"))
	require.NoError(t, err)

	encoder, err := qrlink.NewEncoder(filepath.Join(t.TempDir(), "qrcodes"))
	require.NoError(t, err)

	return db, encoder, func() {
		db.Close()
	}
}
