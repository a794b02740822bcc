package packet

import "bytes"

// Pingresp is the broker's reply to PINGREQ, also payload-less.
type Pingresp struct{}

func (pkt *Pingresp) Kind() byte   { return 0xD }
func (pkt *Pingresp) flags() byte { return 0 }

func (pkt *Pingresp) pack(version byte) ([]byte, error) { return nil, nil }

func (pkt *Pingresp) unpack(fixed FixedHeader, buf *bytes.Buffer) error { return nil }
