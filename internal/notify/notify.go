// Package notify emits owner-notification events when a finder message is
// recorded. Real delivery is out of scope: events are published on a bus
// and, by default, written to the log.
package notify

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Topic carries the owner-notification events.
const Topic = "owner_notifications"

type (
	// An Event describes a finder message recorded for an item.
	Event struct {
		ItemID        string `json:"item_id"`
		OwnerContact  string `json:"owner_contact"`
		FinderName    string `json:"finder_name"`
		FinderContact string `json:"finder_contact"`
		FoundWhere    string `json:"found_where"`
		Message       string `json:"message"`
	}

	// A Notifier emits owner-notification events.
	Notifier interface {
		// MessageReceived publishes the event of a finder message recorded for an item.
		MessageReceived(event Event) error
	}

	publisher struct {
		pub message.Publisher
	}
)

// NewGoChannel returns the in-process bus used to carry events
// between the message service and its consumers.
func NewGoChannel() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
}

// New returns a Notifier publishing events on pub.
func New(pub message.Publisher) Notifier {
	return &publisher{pub: pub}
}

// MessageReceived implements Notifier.
func (n *publisher) MessageReceived(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "could not serialize owner notification")
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return errors.Wrap(n.pub.Publish(Topic, msg), "could not publish owner notification")
}

// LogEvents consumes owner-notification events from sub and writes them to
// the log until ctx is canceled. It stands in for a real delivery channel.
func LogEvents(ctx context.Context, sub message.Subscriber) error {
	messages, err := sub.Subscribe(ctx, Topic)
	if err != nil {
		return errors.Wrap(err, "could not subscribe to owner notifications")
	}

	go func() {
		for msg := range messages {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logrus.WithError(err).Error("could not parse owner notification")
				msg.Ack()
				continue
			}

			logrus.WithFields(logrus.Fields{
				"item_id":        event.ItemID,
				"owner_contact":  event.OwnerContact,
				"finder_name":    event.FinderName,
				"finder_contact": event.FinderContact,
				"found_where":    event.FoundWhere,
				"message":        event.Message,
			}).Info("finder message recorded for owner")
			msg.Ack()
		}
	}()

	return nil
}
