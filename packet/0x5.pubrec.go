package packet

import "bytes"

// Pubrec is the second packet of the QoS 2 delivery ladder: receiver
// acknowledges PUBLISH and promises PUBREL will produce no duplicate delivery.
type Pubrec struct{ ackBody }

func (pkt *Pubrec) Kind() byte   { return 0x5 }
func (pkt *Pubrec) flags() byte { return 0 }

func (pkt *Pubrec) pack(version byte) ([]byte, error) { return pkt.ackBody.pack(version) }

func (pkt *Pubrec) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	return pkt.ackBody.unpack(fixed, buf)
}
