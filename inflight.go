package mqttclient

import (
	"sync"

	"github.com/golang-io/mqttclient/packet"
)

// inflightEntry is one outbound packet awaiting acknowledgement: a PUBLISH
// (QoS 1 or 2) or, once PUBREC has arrived for a QoS 2 exchange, the PUBREL
// that superseded it.
type inflightEntry struct {
	packetID uint16
	pkt      packet.Packet
}

// inflightStore is an ordered collection of unacknowledged outbound packets,
// keyed by packet identifier but iterated in original send order so a
// reconnect replays them the way the broker originally saw them.
type inflightStore struct {
	mu      sync.Mutex
	order   []uint16
	entries map[uint16]packet.Packet
}

func newInflightStore() *inflightStore {
	return &inflightStore{entries: make(map[uint16]packet.Packet)}
}

// Put appends pkt under id, or replaces it in place if id is already
// present (the QoS 2 PUBLISH→PUBREL transition keeps the same slot).
func (s *inflightStore) Put(id uint16, pkt packet.Packet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; !exists {
		s.order = append(s.order, id)
	}
	s.entries[id] = pkt
}

func (s *inflightStore) Get(id uint16) (packet.Packet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pkt, ok := s.entries[id]
	return pkt, ok
}

func (s *inflightStore) Remove(id uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns every inflight packet in original send order, without
// removing them — used to replay on reconnect.
func (s *inflightStore) Snapshot() []inflightEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]inflightEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, inflightEntry{packetID: id, pkt: s.entries[id]})
	}
	return out
}

func (s *inflightStore) Clear() []inflightEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]inflightEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, inflightEntry{packetID: id, pkt: s.entries[id]})
	}
	s.order = nil
	s.entries = make(map[uint16]packet.Packet)
	return out
}

func (s *inflightStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// packetIDAllocator hands out packet identifiers 1..65535, wrapping back to 1.
// It does not check for ids in use; allocateID skips those.
type packetIDAllocator struct {
	mu   sync.Mutex
	next uint16
}

// next1 returns the next candidate packet id in sequence, wrapping 65535
// back to 1. allocateID (session.go) is the caller, which additionally
// checks the id against the inflight store and pendingIDs before using it.
func (a *packetIDAllocator) next1() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	if a.next == 0 {
		a.next = 1
	}
	return a.next
}
