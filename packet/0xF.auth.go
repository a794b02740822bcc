package packet

import "bytes"

// Auth carries enhanced-authentication exchange data; introduced in v5.0 and
// has no v3.1.1 equivalent.
type Auth struct {
	ReasonCode ReasonCode
	Properties Properties
}

func (pkt *Auth) Kind() byte   { return 0xF }
func (pkt *Auth) flags() byte { return 0 }

func (pkt *Auth) pack(version byte) ([]byte, error) {
	if pkt.ReasonCode.Code == CodeSuccess.Code && len(pkt.Properties) == 0 {
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

func (pkt *Auth) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	pkt.ReasonCode = CodeSuccess
	if buf.Len() == 0 {
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
	var decErr error
	if pkt.Properties, decErr = DecodeProperties(buf); decErr != nil {
		return decErr
	}
	return nil
}
