package packet

import "bytes"

var protocolName = []byte{0x00, 0x04, 'M', 'Q', 'T', 'T'}

// Will describes the message a broker publishes on the client's behalf if the
// connection drops without a clean DISCONNECT.
type Will struct {
	Topic      string
	Payload    []byte
	QoS        uint8
	Retain     bool
	Properties Properties // v5 only: WillDelayInterval, PayloadFormatIndicator, MessageExpiryInterval, ...
}

// Connect is the first packet a client sends on a new network connection.
// Sending a second CONNECT on the same connection is a protocol violation
// (MQTT-3.1.0-2), enforced by the session engine rather than the codec.
type Connect struct {
	CleanStart bool // CleanSession in v3.1.1, CleanStart in v5.0; same bit position
	KeepAlive  uint16

	ClientID string
	Username string
	Password []byte
	Will     *Will

	Properties Properties // v5 only
}

func (pkt *Connect) Kind() byte   { return 0x1 }
func (pkt *Connect) flags() byte { return 0 }

func (pkt *Connect) pack(version byte) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	buf.Write(protocolName)
	buf.WriteByte(version)

	var flags byte
	if pkt.Username != "" {
		flags |= 0x80
	}
	if pkt.Password != nil {
		flags |= 0x40
	}
	if pkt.Will != nil {
		flags |= 0x04
		flags |= pkt.Will.QoS << 3
		if pkt.Will.Retain {
			flags |= 0x20
		}
	}
	if pkt.CleanStart {
		flags |= 0x02
	}
	buf.WriteByte(flags)
	buf.Write(encodeUint16(pkt.KeepAlive))

	if version == VERSION500 {
		props, err := pkt.Properties.Encode()
		if err != nil {
			return nil, err
		}
		buf.Write(props)
	}

	buf.Write(encodeString(pkt.ClientID))

	if pkt.Will != nil {
		if version == VERSION500 {
			props, err := pkt.Will.Properties.Encode()
			if err != nil {
				return nil, err
			}
			buf.Write(props)
		}
		buf.Write(encodeString(pkt.Will.Topic))
		buf.Write(encodeBinary(pkt.Will.Payload))
	}
	if pkt.Username != "" {
		buf.Write(encodeString(pkt.Username))
	}
	if pkt.Password != nil {
		buf.Write(encodeBinary(pkt.Password))
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func (pkt *Connect) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	name, err := decodeBinary(buf)
	if err != nil {
		return err
	}
	if !bytes.Equal(name, protocolName[2:]) {
		return ErrMalformedProtocolName
	}
	version, err := decodeByte(buf)
	if err != nil {
		return err
	}
	if version != VERSION311 && version != VERSION500 && version != VERSION310 {
		return ErrMalformedProtocolVersion
	}

	flags, err := decodeByte(buf)
	if err != nil {
		return err
	}
	if flags&0x01 != 0 {
		return ErrMalformedFlags // reserved bit must be 0
	}
	willFlag := flags&0x04 != 0
	willQoS := (flags & 0x18) >> 3
	willRetain := flags&0x20 != 0
	if !willFlag && (willQoS != 0 || willRetain) {
		return ErrMalformedFlags
	}
	pkt.CleanStart = flags&0x02 != 0

	if pkt.KeepAlive, err = decodeUint16(buf); err != nil {
		return err
	}

	if version == VERSION500 {
		if pkt.Properties, err = DecodeProperties(buf); err != nil {
			return err
		}
	}

	if pkt.ClientID, err = decodeString(buf); err != nil {
		return err
	}

	if willFlag {
		w := &Will{QoS: willQoS, Retain: willRetain}
		if version == VERSION500 {
			if w.Properties, err = DecodeProperties(buf); err != nil {
				return err
			}
		}
		if w.Topic, err = decodeString(buf); err != nil {
			return err
		}
		if w.Payload, err = decodeBinary(buf); err != nil {
			return err
		}
		pkt.Will = w
	}

	if flags&0x80 != 0 {
		if pkt.Username, err = decodeString(buf); err != nil {
			return err
		}
	}
	if flags&0x40 != 0 {
		if pkt.Password, err = decodeBinary(buf); err != nil {
			return err
		}
	}
	return nil
}
