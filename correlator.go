package mqttclient

import (
	"sync"
	"time"

	"github.com/golang-io/mqttclient/packet"
)

// awaitKind names the shape of a pending operation's expected reply, per the
// data-oriented redesign of the correlator: a table lookup by (kind, id)
// rather than closures capturing caller state.
type awaitKind int

const (
	awaitingConnack awaitKind = iota
	awaitingPuback
	awaitingPubrec
	awaitingPubcomp
	awaitingSuback
	awaitingUnsuback
	awaitingPingresp
)

// pendingTask is one registered operation awaiting a specific inbound
// packet. result receives exactly one value: the matched packet, or an
// error (Timeout, ServerClosedConnection, ServerDisconnection, ...).
type pendingTask struct {
	kind     awaitKind
	packetID uint16 // meaningful for all kinds except awaitingConnack/awaitingPingresp

	result chan taskResult
	timer  *time.Timer
}

type taskResult struct {
	pkt packet.Packet
	err error
}

// correlator routes inbound packets to the pending task that asked for them,
// in registration order, and provides the unsolicited-push fallback paths
// named in the spec (auto PacketIdentifierNotFound responses, DISCONNECT
// fan-out to every pending task).
type correlator struct {
	mu    sync.Mutex
	tasks []*pendingTask
}

func newCorrelator() *correlator {
	return &correlator{}
}

// Register adds a new pending task and returns the channel its result will
// arrive on. If timeout > 0, the task fails with ErrTimeout if untouched by
// then; the timer is stopped once the task resolves through any path.
func (c *correlator) Register(kind awaitKind, packetID uint16, timeout time.Duration) *pendingTask {
	task := &pendingTask{kind: kind, packetID: packetID, result: make(chan taskResult, 1)}
	c.mu.Lock()
	c.tasks = append(c.tasks, task)
	c.mu.Unlock()

	if timeout > 0 {
		task.timer = time.AfterFunc(timeout, func() {
			c.resolve(task, taskResult{err: ErrTimeout})
		})
	}
	return task
}

// resolve delivers a result to task and removes it from the registry. Safe
// to call more than once for the same task; only the first call has effect.
func (c *correlator) resolve(task *pendingTask, res taskResult) {
	c.mu.Lock()
	removed := false
	for i, t := range c.tasks {
		if t == task {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()
	if !removed {
		return
	}
	if task.timer != nil {
		task.timer.Stop()
	}
	task.result <- res
}

// Offer presents an inbound packet to the first pending task whose kind/id
// matches, resolving it. It returns false if nothing was waiting, which
// callers use to drive the unsolicited-packet fallback paths (e.g. the
// automatic PacketIdentifierNotFound PUBREL for an unmatched PUBREC).
func (c *correlator) Offer(kind awaitKind, packetID uint16, pkt packet.Packet) bool {
	c.mu.Lock()
	var match *pendingTask
	for _, t := range c.tasks {
		if t.kind != kind {
			continue
		}
		if kind != awaitingConnack && kind != awaitingPingresp && t.packetID != packetID {
			continue
		}
		match = t
		break
	}
	c.mu.Unlock()
	if match == nil {
		return false
	}
	c.resolve(match, taskResult{pkt: pkt})
	return true
}

// FailAll resolves every pending task with err — used on connection close
// (ServerClosedConnection) and on a broker-initiated v5 DISCONNECT
// (ServerDisconnection).
func (c *correlator) FailAll(err error) {
	c.mu.Lock()
	tasks := c.tasks
	c.tasks = nil
	c.mu.Unlock()
	for _, t := range tasks {
		if t.timer != nil {
			t.timer.Stop()
		}
		t.result <- taskResult{err: err}
	}
}
