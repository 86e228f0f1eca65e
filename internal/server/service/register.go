package service

import (
	"context"
	"strings"

	"github.com/mdouchement/foundtag/internal/database"
	"github.com/mdouchement/foundtag/internal/enhancer"
	"github.com/mdouchement/foundtag/internal/lferror"
	"github.com/mdouchement/foundtag/internal/model"
	"github.com/mdouchement/foundtag/internal/qrlink"
	"github.com/mdouchement/foundtag/internal/shortid"
	"github.com/sirupsen/logrus"
)

// createAttempts bounds identifier regeneration when the store reports a collision.
const createAttempts = 3

// A Registration is a service used for registering lost items.
type Registration struct {
	db       database.Client
	enhancer enhancer.Enhancer
	encoder  *qrlink.Encoder
	baseURL  string
	params   RegisterParams

	// Populated during Execute()
	Item   *model.Item
	QRCode string
}

// NewRegistration returns a registration service for the given params.
func NewRegistration(db database.Client, e enhancer.Enhancer, encoder *qrlink.Encoder, baseURL string, params RegisterParams) *Registration {
	return &Registration{
		db:       db,
		enhancer: e,
		encoder:  encoder,
		baseURL:  baseURL,
		params:   params,
	}
}

// Execute performs the registration.
func (s *Registration) Execute(ctx context.Context) error {
	s.params.OwnerName = strings.TrimSpace(s.params.OwnerName)
	s.params.OwnerContact = strings.TrimSpace(s.params.OwnerContact)
	s.params.Description = strings.TrimSpace(s.params.Description)

	if err := check(s.params); err != nil {
		return err
	}

	// Enhancement happens once, at creation. The stored value is final.
	description := s.params.Description
	if description != "" {
		description = s.enhancer.Enhance(ctx, description)
	}

	for i := 0; i < createAttempts; i++ {
		item := model.NewItem(shortid.New())
		item.OwnerName = s.params.OwnerName
		item.OwnerContact = s.params.OwnerContact
		item.Description = description

		err := s.db.CreateItem(item)
		if err == nil {
			s.Item = item
			break
		}
		if !s.db.IsAlreadyExists(err) {
			return lferror.StorageFailure(err.Error())
		}
	}
	if s.Item == nil {
		return lferror.RegistrationFailed("could not allocate a free identifier")
	}

	name, err := s.encoder.Encode(s.baseURL, s.Item.ID)
	if err != nil {
		// The record persists. The code can be re-requested for this id.
		logrus.WithError(err).WithField("item_id", s.Item.ID).Error("could not generate qrcode")
		return nil
	}
	s.QRCode = name

	return nil
}
