package packet

import "bytes"

// Publish carries application message data, in either direction.
type Publish struct {
	Dup      bool
	QoS      uint8
	Retain   bool
	Topic    string
	PacketID uint16 // present only when QoS > 0
	Payload  []byte

	Properties Properties // v5 only
}

func (pkt *Publish) Kind() byte { return 0x3 }

func (pkt *Publish) flags() byte {
	var b byte
	if pkt.Dup {
		b |= 0x08
	}
	b |= pkt.QoS << 1
	if pkt.Retain {
		b |= 0x01
	}
	return b
}

func (pkt *Publish) pack(version byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(encodeString(pkt.Topic))
	if pkt.QoS > 0 {
		buf.Write(encodeUint16(pkt.PacketID))
	}
	if version == VERSION500 {
		props, err := pkt.Properties.Encode()
		if err != nil {
			return nil, err
		}
		buf.Write(props)
	}
	buf.Write(pkt.Payload)
	return buf.Bytes(), nil
}

func (pkt *Publish) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	pkt.Dup = fixed.Dup
	pkt.QoS = fixed.QoS
	pkt.Retain = fixed.Retain

	topic, err := decodeString(buf)
	if err != nil {
		return err
	}
	pkt.Topic = topic

	if pkt.QoS > 0 {
		if pkt.PacketID, err = decodeUint16(buf); err != nil {
			return err
		}
		if pkt.PacketID == 0 {
			return ErrMalformedPacketID
		}
	}

	if fixed.Version == VERSION500 {
		if pkt.Properties, err = DecodeProperties(buf); err != nil {
			return err
		}
	}

	// Remainder of the buffer is the application payload, length-implicit.
	pkt.Payload = make([]byte, buf.Len())
	copy(pkt.Payload, buf.Bytes())
	buf.Reset()
	return nil
}
