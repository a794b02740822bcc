package packet

import "bytes"

// Pubrel is the third packet of the QoS 2 ladder, sent in reply to PUBREC.
// Its flags are fixed at 0b0010 (MQTT-3.6.1-1).
type Pubrel struct{ ackBody }

func (pkt *Pubrel) Kind() byte   { return 0x6 }
func (pkt *Pubrel) flags() byte { return 0x02 }

func (pkt *Pubrel) pack(version byte) ([]byte, error) { return pkt.ackBody.pack(version) }

func (pkt *Pubrel) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	return pkt.ackBody.unpack(fixed, buf)
}
