package packet

import "bytes"

// Connack is the broker's response to CONNECT.
type Connack struct {
	SessionPresent bool
	ReasonCode     ReasonCode // v3.1.1 "return code" reuses this type; see ErrV3* in errors.go
	Properties     Properties // v5 only
}

func (pkt *Connack) Kind() byte   { return 0x2 }
func (pkt *Connack) flags() byte { return 0 }

func (pkt *Connack) pack(version byte) ([]byte, error) {
	var buf bytes.Buffer
	var ack byte
	if pkt.SessionPresent {
		ack = 0x01
	}
	buf.WriteByte(ack)
	buf.WriteByte(pkt.ReasonCode.Code)

	if version == VERSION500 {
		props, err := pkt.Properties.Encode()
		if err != nil {
			return nil, err
		}
		buf.Write(props)
	}
	return buf.Bytes(), nil
}

func (pkt *Connack) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	ack, err := decodeByte(buf)
	if err != nil {
		return err
	}
	if ack&0xFE != 0 {
		return ErrMalformedFlags
	}
	pkt.SessionPresent = ack&0x01 != 0

	code, err := decodeByte(buf)
	if err != nil {
		return err
	}
	pkt.ReasonCode = ReasonCode{Code: code}

	if fixed.Version == VERSION500 {
		if pkt.Properties, err = DecodeProperties(buf); err != nil {
			return err
		}
	}
	return nil
}
