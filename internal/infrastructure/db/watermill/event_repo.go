package watermilldb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/arkade-os/nftbridge/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

const assetIdMetadataKey = "asset_id"

type subscriber struct {
	topic   string
	handler func(events []domain.Event)
}

type eventRepository struct {
	publisher message.Publisher

	subscribers    map[string][]subscriber // topic -> subscribers
	subscriberLock *sync.Mutex
}

func NewWatermillEventRepository(publisher message.Publisher) domain.EventRepository {
	return &eventRepository{
		publisher:      publisher,
		subscribers:    make(map[string][]subscriber),
		subscriberLock: &sync.Mutex{},
	}
}

func (e *eventRepository) ClearRegisteredHandlers(topics ...string) {
	e.subscriberLock.Lock()
	defer e.subscriberLock.Unlock()

	if len(topics) == 0 {
		e.subscribers = make(map[string][]subscriber)
		return
	}

	for _, topic := range topics {
		delete(e.subscribers, topic)
	}
}

func (e *eventRepository) Close() {
	//nolint:errcheck
	e.publisher.Close()
}

func (e *eventRepository) RegisterEventsHandler(
	topic string, handler func(events []domain.Event),
) {
	e.subscriberLock.Lock()
	defer e.subscriberLock.Unlock()

	if _, ok := e.subscribers[topic]; !ok {
		e.subscribers[topic] = make([]subscriber, 0)
	}

	e.subscribers[topic] = append(e.subscribers[topic], subscriber{
		topic:   topic,
		handler: handler,
	})
}

// Save publishes the events of the given asset and hands them to the handlers registered for
// topic, each in its own goroutine.
func (e *eventRepository) Save(
	ctx context.Context, topic string, id string, events []domain.Event,
) error {
	if len(events) <= 0 {
		return nil
	}

	if err := e.publish(topic, id, events); err != nil {
		return fmt.Errorf("failed to publish events for %s: %w", id, err)
	}

	e.dispatch(topic, events)
	return nil
}

func (e *eventRepository) dispatch(topic string, events []domain.Event) {
	e.subscriberLock.Lock()
	defer e.subscriberLock.Unlock()
	for _, subscriber := range e.subscribers[topic] {
		go subscriber.handler(events)
	}
}

func (e *eventRepository) publish(topic, id string, events []domain.Event) error {
	watermillMessages := toWatermillMessages(id, events)
	return e.publisher.Publish(topic, watermillMessages...)
}

func toWatermillMessages(id string, events []domain.Event) []*message.Message {
	watermillMessages := make([]*message.Message, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			log.WithError(err).Warn("failed to encode event, skipping")
			continue
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(assetIdMetadataKey, id)
		watermillMessages = append(watermillMessages, msg)
	}

	return watermillMessages
}
