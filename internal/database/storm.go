package database

import (
	"sync"
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/gofrs/uuid"
	"github.com/mdouchement/foundtag/internal/model"
	"github.com/pkg/errors"
)

type strm struct {
	db *storm.DB
	// Serializes all read-modify-write cycles so concurrent appends
	// against the same item never drop a message.
	mu sync.Mutex
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	err = db.Init(&model.Item{})
	return errors.Wrap(err, "could not init item index")
}

// StormReIndex reindex Storm database.
func StormReIndex(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	err = db.ReIndex(&model.Item{})
	return errors.Wrap(err, "could not ReIndex items")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// save must be called with c.mu held.
func (c *strm) save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
	}
	if m.GetCreatedAt() == nil {
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// IsAlreadyExists returns true if err is an already exists error.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

// CreateItem persists the given item.
func (c *strm) CreateItem(item *model.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var existing model.Item
	err := c.db.One("ID", item.ID, &existing)
	if err == nil {
		return errors.Wrap(storm.ErrAlreadyExists, "could not create item")
	}
	if err != storm.ErrNotFound {
		return errors.Wrap(err, "could not check item id")
	}

	return c.save(item)
}

// FindItem returns the item for the given id.
func (c *strm) FindItem(id string) (*model.Item, error) {
	var item model.Item
	if err := c.db.One("ID", id, &item); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return &item, nil
}

// FindItems returns all the registered items ordered by creation date.
func (c *strm) FindItems() ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	err := c.db.Select().OrderBy("CreatedAt").Find(&items)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find items")
	}
	return items, nil
}

// AddItemMessage appends the message to the item's records.
func (c *strm) AddItemMessage(id string, message model.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var item model.Item
	if err := c.db.One("ID", id, &item); err != nil {
		return errors.Wrap(err, "could not find item")
	}

	item.Messages = append(item.Messages, message)
	return c.save(&item)
}
