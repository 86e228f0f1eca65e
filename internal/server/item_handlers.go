package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/foundtag/internal/database"
	"github.com/mdouchement/foundtag/internal/enhancer"
	"github.com/mdouchement/foundtag/internal/lferror"
	"github.com/mdouchement/foundtag/internal/notify"
	"github.com/mdouchement/foundtag/internal/qrlink"
	"github.com/mdouchement/foundtag/internal/server/serializer"
	"github.com/mdouchement/foundtag/internal/server/service"
)

// item contains all item handlers.
type item struct {
	db       database.Client
	enhancer enhancer.Enhancer
	encoder  *qrlink.Encoder
	notifier notify.Notifier
	baseURL  string
}

///// Register
////
//

// Register registers a lost item and renders it along its QR code asset.
func (h *item) Register(c echo.Context) error {
	var params service.RegisterParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, lferror.New("Could not get registration params."))
	}

	registration := service.NewRegistration(h.db, h.enhancer, h.encoder, h.baseURL, params)
	if err := registration.Execute(c.Request().Context()); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serializer.Registration(registration.Item, registration.QRCode))
}

///// Show
////
//

// Show renders the public view of an item. The owner contact never appears here.
func (h *item) Show(c echo.Context) error {
	record, err := h.db.FindItem(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return lferror.NotFound("Item not found.")
		}
		return err
	}

	return c.JSON(http.StatusOK, serializer.PublicItem(record, h.encoder.Exists(record.ID)))
}

///// Contact
////
//

// Contact records a finder message against an item for its owner.
func (h *item) Contact(c echo.Context) error {
	var params service.MessageParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, lferror.New("Could not get message params."))
	}

	message := service.NewMessage(h.db, h.notifier, c.Param("id"), params)
	if err := message.Execute(); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"item_id":  message.ItemID,
		"recorded": true,
	})
}

///// RegenerateQRCode
////
//

// RegenerateQRCode re-renders the code asset of an already registered item.
// Recovery path when a registration persisted its record but lost its code.
func (h *item) RegenerateQRCode(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.db.FindItem(id); err != nil {
		if h.db.IsNotFound(err) {
			return lferror.NotFound("Item not found.")
		}
		return err
	}

	name, err := h.encoder.Encode(h.baseURL, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"qrcode": "/qrcodes/" + name,
	})
}
