package packet

import "bytes"

// Suback carries one reason code per filter requested in the matching SUBSCRIBE,
// in the same order.
type Suback struct {
	PacketID    uint16
	ReasonCodes []ReasonCode

	Properties Properties // v5 only
}

func (pkt *Suback) Kind() byte   { return 0x9 }
func (pkt *Suback) flags() byte { return 0 }

func (pkt *Suback) pack(version byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(encodeUint16(pkt.PacketID))
	if version == VERSION500 {
		props, err := pkt.Properties.Encode()
		if err != nil {
			return nil, err
		}
		buf.Write(props)
	}
	for _, rc := range pkt.ReasonCodes {
		buf.WriteByte(rc.Code)
	}
	return buf.Bytes(), nil
}

func (pkt *Suback) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	var err error
	if pkt.PacketID, err = decodeUint16(buf); err != nil {
		return err
	}
	if fixed.Version == VERSION500 {
		if pkt.Properties, err = DecodeProperties(buf); err != nil {
			return err
		}
	}
	for buf.Len() > 0 {
		b, err := decodeByte(buf)
		if err != nil {
			return err
		}
		pkt.ReasonCodes = append(pkt.ReasonCodes, ReasonCode{Code: b})
	}
	return nil
}
