package service

import (
	"strings"

	"github.com/mdouchement/foundtag/internal/database"
	"github.com/mdouchement/foundtag/internal/lferror"
	"github.com/mdouchement/foundtag/internal/model"
	"github.com/mdouchement/foundtag/internal/notify"
	"github.com/sirupsen/logrus"
)

// A Message is a service used for recording a finder message against an item.
type Message struct {
	db       database.Client
	notifier notify.Notifier
	id       string
	params   MessageParams

	// Populated during Execute()
	ItemID string
}

// NewMessage returns a message service for the given item id and params.
func NewMessage(db database.Client, notifier notify.Notifier, id string, params MessageParams) *Message {
	return &Message{
		db:       db,
		notifier: notifier,
		id:       id,
		params:   params,
	}
}

// Execute records the finder message and emits the owner-notification event.
func (s *Message) Execute() error {
	s.params.FinderName = strings.TrimSpace(s.params.FinderName)
	s.params.FinderContact = strings.TrimSpace(s.params.FinderContact)
	s.params.FoundWhere = strings.TrimSpace(s.params.FoundWhere)
	s.params.Message = strings.TrimSpace(s.params.Message)

	if err := check(s.params); err != nil {
		return err
	}

	item, err := s.db.FindItem(s.id)
	if err != nil {
		if s.db.IsNotFound(err) {
			return lferror.NotFound("Item not found.")
		}
		return lferror.StorageFailure(err.Error())
	}

	err = s.db.AddItemMessage(s.id, model.Message{
		FinderName:    s.params.FinderName,
		FinderContact: s.params.FinderContact,
		FoundWhere:    s.params.FoundWhere,
		Message:       s.params.Message,
	})
	if err != nil {
		if s.db.IsNotFound(err) {
			return lferror.NotFound("Item not found.")
		}
		return lferror.StorageFailure(err.Error())
	}

	// The contract is "message durably recorded and an event emitted",
	// not that anything is delivered.
	err = s.notifier.MessageReceived(notify.Event{
		ItemID:        s.id,
		OwnerContact:  item.OwnerContact,
		FinderName:    s.params.FinderName,
		FinderContact: s.params.FinderContact,
		FoundWhere:    s.params.FoundWhere,
		Message:       s.params.Message,
	})
	if err != nil {
		logrus.WithError(err).WithField("item_id", s.id).Error("could not emit owner notification")
	}

	s.ItemID = s.id
	return nil
}
