package packet

import "bytes"

// Unsuback acknowledges an UNSUBSCRIBE, one reason code per filter in v5;
// v3.1.1 carries only the packet identifier.
type Unsuback struct {
	PacketID    uint16
	ReasonCodes []ReasonCode // v5 only

	Properties Properties // v5 only
}

func (pkt *Unsuback) Kind() byte   { return 0xB }
func (pkt *Unsuback) flags() byte { return 0 }

func (pkt *Unsuback) pack(version byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(encodeUint16(pkt.PacketID))
	if version != VERSION500 {
		return buf.Bytes(), nil
	}
	props, err := pkt.Properties.Encode()
	if err != nil {
		return nil, err
	}
	buf.Write(props)
	for _, rc := range pkt.ReasonCodes {
		buf.WriteByte(rc.Code)
	}
	return buf.Bytes(), nil
}

func (pkt *Unsuback) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	var err error
	if pkt.PacketID, err = decodeUint16(buf); err != nil {
		return err
	}
	if fixed.Version != VERSION500 {
		return nil
	}
	if pkt.Properties, err = DecodeProperties(buf); err != nil {
		return err
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
