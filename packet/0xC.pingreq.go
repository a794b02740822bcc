package packet

import "bytes"

// Pingreq carries no payload; its mere arrival resets the keep-alive timer.
type Pingreq struct{}

func (pkt *Pingreq) Kind() byte   { return 0xC }
func (pkt *Pingreq) flags() byte { return 0 }

func (pkt *Pingreq) pack(version byte) ([]byte, error) { return nil, nil }

func (pkt *Pingreq) unpack(fixed FixedHeader, buf *bytes.Buffer) error { return nil }
