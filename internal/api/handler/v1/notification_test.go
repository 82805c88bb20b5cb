package v1

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskf/bookraffle-api/internal/domain"
)

func TestNotificationHub_RegisterReplacesClient(t *testing.T) {
	h := NewNotificationHandler(nil, nil)
	go h.Run()

	old := &Client{send: make(chan []byte, 1), userID: 7}
	h.register <- old

	replacement := &Client{send: make(chan []byte, 1), userID: 7}
	h.register <- replacement

	select {
	case _, ok := <-old.send:
		assert.False(t, ok, "previous connection's channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("previous connection's channel was not closed")
	}

	h.Publish(7, domain.Notification{ID: 1, UserID: 7, Name: "you won"})

	select {
	case message := <-replacement.send:
		var notification domain.Notification
		require.NoError(t, json.Unmarshal(message, &notification))
		assert.Equal(t, uint(1), notification.ID)
	case <-time.After(time.Second):
		t.Fatal("notification was not pushed to the live connection")
	}
}

// Publishers racing a user's reconnects must never hit the channel a
// replaced client had, since Run closes it when the new one registers.
func TestNotificationHub_PublishDuringReconnects(t *testing.T) {
	h := NewNotificationHandler(nil, nil)
	go h.Run()

	notification := domain.Notification{ID: 1, UserID: 7, Name: "you won"}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					h.Publish(7, notification)
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		h.register <- &Client{send: make(chan []byte, 1), userID: 7}
	}

	close(stop)
	wg.Wait()
}
