package core

import (
	"testing"
	"time"

	"github.com/sockline/sockline-server/internal/proto"
)

func mustEvent(t *testing.T, ch <-chan *proto.Outbound, event string) *proto.Outbound {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case out := <-ch:
			if out == nil {
				continue
			}
			if out.Event == event {
				return out
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event %q not received", event)
	return nil
}

// mustNoEvent drains ch for a short window and fails if event shows up.
func mustNoEvent(t *testing.T, ch <-chan *proto.Outbound, event string) {
	t.Helper()

	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case out := <-ch:
			if out != nil && out.Event == event {
				t.Fatalf("unexpected event %q received: %+v", event, out)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// countEvents drains ch for a short window and counts occurrences of event.
func countEvents(ch <-chan *proto.Outbound, event string) int {
	deadline := time.Now().Add(300 * time.Millisecond)
	count := 0
	for time.Now().Before(deadline) {
		select {
		case out := <-ch:
			if out != nil && out.Event == event {
				count++
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	return count
}
