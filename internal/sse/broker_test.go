package sse

import (
	"strings"
	"testing"
	"time"
)

func recvEvent(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while waiting for event")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return ""
}

func TestSubscribeAndCount(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	if n := b.ClientCount(); n != 0 {
		t.Fatalf("initial count: got %d, want 0", n)
	}

	a := b.Subscribe()
	c := b.Subscribe()
	if n := b.ClientCount(); n != 2 {
		t.Fatalf("count after subscribe: got %d, want 2", n)
	}

	b.Unsubscribe(a)
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("count after unsubscribe: got %d, want 1", n)
	}
	if _, ok := <-a; ok {
		t.Error("unsubscribed channel should be closed")
	}
	b.Unsubscribe(c)
}

func TestPublishItemEventReachesAllClients(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	a := b.Subscribe()
	c := b.Subscribe()
	b.PublishItemEvent("created", "item-1")

	for _, ch := range []chan []byte{a, c} {
		msg := recvEvent(t, ch)
		if !strings.Contains(msg, "event: item.created") {
			t.Errorf("event name missing: %q", msg)
		}
		if !strings.Contains(msg, `"id":"item-1"`) {
			t.Errorf("event payload missing id: %q", msg)
		}
	}
}

func TestStatsEventThrottled(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()

	// The first item event also carries a stats refresh.
	b.PublishItemEvent("created", "a")
	first := recvEvent(t, ch)
	if !strings.Contains(first, "item.created") {
		t.Fatalf("unexpected first event: %q", first)
	}
	stats := recvEvent(t, ch)
	if !strings.Contains(stats, "stats.updated") {
		t.Fatalf("expected stats event, got: %q", stats)
	}

	// Within the throttle window only the item event goes out.
	b.PublishItemEvent("updated", "a")
	second := recvEvent(t, ch)
	if !strings.Contains(second, "item.updated") {
		t.Fatalf("unexpected event: %q", second)
	}
	select {
	case msg := <-ch:
		t.Errorf("throttled stats event leaked: %q", string(msg))
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseShutsDownClients(t *testing.T) {
	b := NewBroker(time.Second)
	ch := b.Subscribe()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("client channel should be closed after broker close")
	}
	if n := b.ClientCount(); n != 0 {
		t.Errorf("count after close: got %d, want 0", n)
	}
	// Publishing after close is a no-op, not a panic.
	b.PublishItemEvent("created", "x")
}
