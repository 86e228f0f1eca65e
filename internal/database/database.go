package database

import (
	"github.com/mdouchement/foundtag/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is an already exists error.
		IsAlreadyExists(err error) bool

		ItemInteraction
	}

	// An ItemInteraction defines all the methods used to interact with item record(s).
	ItemInteraction interface {
		// CreateItem persists the given item. Its id must be assigned beforehand.
		// An already exists error is returned when the id is taken.
		CreateItem(item *model.Item) error
		// FindItem returns the item for the given id.
		FindItem(id string) (*model.Item, error)
		// FindItems returns all the registered items ordered by creation date.
		FindItems() ([]*model.Item, error)
		// AddItemMessage appends the message to the item's records.
		// The messages sequence is append-only, insertion order preserved.
		AddItemMessage(id string, message model.Message) error
	}
)
