package packet

import "bytes"

// Disconnect signals a clean connection close, either direction. A v3.1.1
// DISCONNECT has no body at all. In v5, an empty body is shorthand for
// normal disconnection with no properties, exactly like the ack packets.
type Disconnect struct {
	ReasonCode ReasonCode // v5 only
	Properties Properties // v5 only
}

func (pkt *Disconnect) Kind() byte   { return 0xE }
func (pkt *Disconnect) flags() byte { return 0 }

func (pkt *Disconnect) pack(version byte) ([]byte, error) {
	if version != VERSION500 {
		return nil, nil
	}
	if pkt.ReasonCode.Code == CodeNormalDisconnection.Code && len(pkt.Properties) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	buf.WriteByte(pkt.ReasonCode.Code)
	props, err := pkt.Properties.Encode()
	if err != nil {
		return nil, err
	}
	buf.Write(props)
	return buf.Bytes(), nil
}

func (pkt *Disconnect) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	pkt.ReasonCode = CodeNormalDisconnection
	if fixed.Version != VERSION500 || buf.Len() == 0 {
		return nil
	}
	code, err := decodeByte(buf)
	if err != nil {
		return err
	}
	pkt.ReasonCode = ReasonCode{Code: code}
	if buf.Len() == 0 {
		return nil
	}
	if pkt.Properties, err = DecodeProperties(buf); err != nil {
		return err
	}
	return nil
}
