package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/speedrunethereum/speedrun/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch := evts.Acquire("a")
	if again := evts.Acquire("a"); again != ch {
		t.Fatalf("Should get back the same channel for the same id.")
	}

	sent := events.Event{Type: "build.created", Actor: "0x1", Resource: "build", ID: "b1", Time: time.Now().UTC()}
	evts.Send(sent)

	var got events.Event
	if err := json.Unmarshal(<-ch, &got); err != nil {
		t.Fatalf("Should be able to decode the event: %s", err)
	}
	if got.Type != sent.Type || got.ID != sent.ID {
		t.Fatalf("Should get back the event that was sent: %+v", got)
	}

	// Send must not block when nobody drains the channel.
	for i := 0; i < 200; i++ {
		evts.Send(sent)
	}

	if err := evts.Release("a"); err != nil {
		t.Fatalf("Should be able to release the channel: %s", err)
	}
	if err := evts.Release("a"); err == nil {
		t.Fatalf("Should not be able to release the channel twice.")
	}

	evts.Acquire("b")
	evts.Shutdown()
	if evts.Subscribers() != 0 {
		t.Fatalf("Should have no subscribers after shutdown.")
	}
}
