package packet

import "bytes"

// Pubcomp completes the QoS 2 delivery ladder in response to PUBREL.
type Pubcomp struct{ ackBody }

func (pkt *Pubcomp) Kind() byte   { return 0x7 }
func (pkt *Pubcomp) flags() byte { return 0 }

func (pkt *Pubcomp) pack(version byte) ([]byte, error) { return pkt.ackBody.pack(version) }

func (pkt *Pubcomp) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	return pkt.ackBody.unpack(fixed, buf)
}
