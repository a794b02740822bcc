package mqttclient

import (
	"sync"
	"time"

	"github.com/golang-io/mqttclient/packet"
)

// keepAliveScheduler sends PINGREQ when the connection has been silent for
// the negotiated interval, per §4.G: every successful write resets the
// deadline, so application traffic alone can keep a session alive without
// ever sending a ping.
type keepAliveScheduler struct {
	client   *Client
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newKeepAliveScheduler(c *Client, interval time.Duration) *keepAliveScheduler {
	return &keepAliveScheduler{client: c, interval: interval}
}

// Start arms the first deadline. No-op if interval is zero (keep-alive
// disabled, either by configuration or because the broker returned a
// Server Keep Alive of 0 in CONNACK).
func (k *keepAliveScheduler) Start() {
	if k.interval <= 0 {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.stopped {
		return
	}
	k.timer = time.AfterFunc(k.interval, k.fire)
}

// noteWrite pushes the deadline back out by interval. Called after every
// successful write on the executor goroutine.
func (k *keepAliveScheduler) noteWrite() {
	if k.interval <= 0 {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.stopped || k.timer == nil {
		return
	}
	k.timer.Reset(k.interval)
}

// fire runs on its own goroutine (time.AfterFunc), so it submits the actual
// ping onto the executor rather than touching the connection directly.
func (k *keepAliveScheduler) fire() {
	k.client.submit(func() {
		if k.client.State() != StateActive {
			return
		}
		if err := k.client.writePacket(&packet.Pingreq{}); err != nil {
			return
		}
		task := k.client.correlator.Register(awaitingPingresp, 0, k.client.cfg.AckTimeout)
		go func() {
			res := <-task.result
			if res.err != nil {
				k.client.submit(func() {
					k.client.teardown(ErrKeepAliveTimeout)
				})
			}
		}()
	})
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.stopped && k.timer != nil {
		k.timer.Reset(k.interval)
	}
}

func (k *keepAliveScheduler) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.stopped = true
	if k.timer != nil {
		k.timer.Stop()
	}
}

// ErrKeepAliveTimeout means the broker never answered a PINGREQ within the
// ack timeout (MQTT-3.1.2-24's corollary on the client side).
var ErrKeepAliveTimeout = packet.ErrKeepAliveTimeout
