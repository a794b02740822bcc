package packet

import "bytes"

// ackBody is the shared wire shape of PUBACK, PUBREC, PUBREL and PUBCOMP: a
// packet identifier, and — for v5 only, and only when there's something to
// say — a reason code followed by a property block. When the reason is
// success and no properties are set, v5 allows (and the MQTT-3.4.2-1 family
// of rules expects) the reason code and properties to be omitted entirely,
// shortening the packet to just the packet identifier.
type ackBody struct {
	PacketID   uint16
	ReasonCode ReasonCode
	Properties Properties
}

func (a *ackBody) pack(version byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(encodeUint16(a.PacketID))
	if version != VERSION500 {
		return buf.Bytes(), nil
	}
	if a.ReasonCode.Code == CodeSuccess.Code && len(a.Properties) == 0 {
		return buf.Bytes(), nil
	}
	buf.WriteByte(a.ReasonCode.Code)
	props, err := a.Properties.Encode()
	if err != nil {
		return nil, err
	}
	buf.Write(props)
	return buf.Bytes(), nil
}

func (a *ackBody) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	var err error
	if a.PacketID, err = decodeUint16(buf); err != nil {
		return err
	}
	if a.PacketID == 0 {
		return ErrMalformedPacketID
	}
	a.ReasonCode = CodeSuccess
	if fixed.Version != VERSION500 || buf.Len() == 0 {
		return nil
	}
	code, err := decodeByte(buf)
	if err != nil {
		return err
	}
	a.ReasonCode = ReasonCode{Code: code}
	if buf.Len() == 0 {
		return nil
	}
	if a.Properties, err = DecodeProperties(buf); err != nil {
		return err
	}
	return nil
}

// NewPuback, NewPubrec, NewPubrel and NewPubcomp build the four ack-family
// packets. ackBody is unexported, so callers outside this package cannot
// write a composite literal naming it directly; these are the entry points.
func NewPuback(id uint16, reason ReasonCode) *Puback {
	return &Puback{ackBody{PacketID: id, ReasonCode: reason}}
}

func NewPubrec(id uint16, reason ReasonCode) *Pubrec {
	return &Pubrec{ackBody{PacketID: id, ReasonCode: reason}}
}

func NewPubrel(id uint16) *Pubrel {
	return &Pubrel{ackBody{PacketID: id, ReasonCode: CodeSuccess}}
}

func NewPubcomp(id uint16, reason ReasonCode) *Pubcomp {
	return &Pubcomp{ackBody{PacketID: id, ReasonCode: reason}}
}
