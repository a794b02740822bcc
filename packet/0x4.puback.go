package packet

import "bytes"

// Puback acknowledges a QoS 1 PUBLISH.
type Puback struct{ ackBody }

func (pkt *Puback) Kind() byte   { return 0x4 }
func (pkt *Puback) flags() byte { return 0 }

func (pkt *Puback) pack(version byte) ([]byte, error) { return pkt.ackBody.pack(version) }

func (pkt *Puback) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	return pkt.ackBody.unpack(fixed, buf)
}
