package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemoteAddress(t *testing.T) {
	assert.Equal(t, "tcp:host=robot.local,port=5555", RemoteAddress("robot.local", 5555))
	assert.Equal(t, "tcp:host=10.0.0.7,port=1234", RemoteAddress("10.0.0.7", 1234))
}

func TestRunBlocksUntilStop(t *testing.T) {
	c := &busConnection{stop: make(chan struct{})}

	done := make(chan struct{})
	go func() {
		_ = c.Run()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Run returned before Stop was called")
	case <-time.After(50 * time.Millisecond):
	}

	c.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c := &busConnection{stop: make(chan struct{})}

	c.Stop()
	assert.NotPanics(t, c.Stop)
}
