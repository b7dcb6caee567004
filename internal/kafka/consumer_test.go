package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kgo "github.com/segmentio/kafka-go"
	"go.uber.org/zap/zaptest"

	"campusmarket/internal/listing"
)

// fakeReader hands out prepared messages, then context.Canceled so Consume
// exits.
type fakeReader struct {
	messages []kgo.Message
	errs     []error
	idx      int
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kgo.Message, error) {
	if f.idx < len(f.messages) {
		msg := f.messages[f.idx]
		f.idx++
		return msg, nil
	}

	errIdx := f.idx - len(f.messages)
	if errIdx < len(f.errs) {
		err := f.errs[errIdx]
		f.idx++
		return kgo.Message{}, err
	}

	return kgo.Message{}, context.Canceled
}

func (f *fakeReader) Close() error {
	return nil
}

func TestConsumer_Consume_ValidEvent(t *testing.T) {
	evt := Event{
		UserID:    5,
		Type:      EventTypeLike,
		Kind:      listing.KindProduct,
		ListingID: 12,
		Category:  "books",
		Timestamp: time.Now().UTC(),
	}
	payload, _ := json.Marshal(evt) // nolint:errcheck

	consumer := &Consumer{
		Reader: &fakeReader{messages: []kgo.Message{{Value: payload}}},
		Logger: zaptest.NewLogger(t).Sugar(),
	}

	var received []Event
	consumer.Consume(context.Background(), func(ctx context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	if len(received) != 1 {
		t.Fatalf("expected 1 handled event, got %d", len(received))
	}
	if received[0].UserID != evt.UserID || received[0].Type != evt.Type || received[0].Category != evt.Category {
		t.Errorf("handled event mismatch: got %+v, want %+v", received[0], evt)
	}
}

func TestConsumer_Consume_InvalidJSON(t *testing.T) {
	consumer := &Consumer{
		Reader: &fakeReader{messages: []kgo.Message{{Value: []byte(`{"user_id": 1, bad json`)}}},
		Logger: zaptest.NewLogger(t).Sugar(),
	}

	called := false
	consumer.Consume(context.Background(), func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	if called {
		t.Error("handler must not run for malformed payloads")
	}
}

func TestConsumer_Consume_ReadErrorIsRetried(t *testing.T) {
	evt := Event{UserID: 3, Type: EventTypeSearch, Kind: listing.KindBusiness}
	payload, _ := json.Marshal(evt) // nolint:errcheck

	// A transient read error is logged and the loop keeps going; only
	// context.Canceled ends it.
	consumer := &Consumer{
		Reader: &fakeReader{
			messages: []kgo.Message{{Value: payload}},
			errs:     []error{errors.New("broker unavailable"), context.Canceled},
		},
		Logger: zaptest.NewLogger(t).Sugar(),
	}

	handled := 0
	consumer.Consume(context.Background(), func(ctx context.Context, e Event) error {
		handled++
		return nil
	})

	if handled != 1 {
		t.Fatalf("expected 1 handled event, got %d", handled)
	}
}

func TestConsumer_Consume_HandlerError(t *testing.T) {
	evt := Event{UserID: 8, Type: EventTypeView, Kind: listing.KindRental}
	payload, _ := json.Marshal(evt) // nolint:errcheck

	consumer := &Consumer{
		Reader: &fakeReader{messages: []kgo.Message{{Value: payload}}},
		Logger: zaptest.NewLogger(t).Sugar(),
	}

	called := false
	consumer.Consume(context.Background(), func(ctx context.Context, e Event) error {
		called = true
		return errors.New("simulated handler failure")
	})

	if !called {
		t.Error("handler should run even when it returns an error")
	}
}
