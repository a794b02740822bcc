package packet

import "bytes"

// SubscribeOption is one topic filter and its requested delivery options in a
// SUBSCRIBE packet.
type SubscribeOption struct {
	Filter            string
	QoS               uint8
	NoLocal           bool  // v5 only
	RetainAsPublished bool  // v5 only
	RetainHandling    uint8 // v5 only: 0 send always, 1 send if new, 2 never
}

func (o SubscribeOption) encode() byte {
	b := o.QoS & 0x03
	if o.NoLocal {
		b |= 0x04
	}
	if o.RetainAsPublished {
		b |= 0x08
	}
	b |= (o.RetainHandling & 0x03) << 4
	return b
}

func decodeSubscribeOption(b byte) (SubscribeOption, error) {
	if b&0xC0 != 0 {
		return SubscribeOption{}, ErrMalformedFlags
	}
	qos := b & 0x03
	if qos > 2 {
		return SubscribeOption{}, ErrProtocolViolationQosOutOfRange
	}
	return SubscribeOption{
		QoS:               qos,
		NoLocal:           b&0x04 != 0,
		RetainAsPublished: b&0x08 != 0,
		RetainHandling:    (b & 0x30) >> 4,
	}, nil
}

// Subscribe requests one or more topic filters be added to the session.
type Subscribe struct {
	PacketID uint16
	Filters  []SubscribeOption

	Properties Properties // v5 only: SubscriptionIdentifier, UserProperty
}

func (pkt *Subscribe) Kind() byte   { return 0x8 }
func (pkt *Subscribe) flags() byte { return 0x02 }

func (pkt *Subscribe) pack(version byte) ([]byte, error) {
	if len(pkt.Filters) == 0 {
		return nil, ErrProtocolViolationNoFilters
	}
	var buf bytes.Buffer
	buf.Write(encodeUint16(pkt.PacketID))
	if version == VERSION500 {
		props, err := pkt.Properties.Encode()
		if err != nil {
			return nil, err
		}
		buf.Write(props)
	}
	for _, f := range pkt.Filters {
		buf.Write(encodeString(f.Filter))
		buf.WriteByte(f.encode())
	}
	return buf.Bytes(), nil
}

func (pkt *Subscribe) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
	var err error
	if pkt.PacketID, err = decodeUint16(buf); err != nil {
		return err
	}
	if pkt.PacketID == 0 {
		return ErrMalformedPacketID
	}
	if fixed.Version == VERSION500 {
		if pkt.Properties, err = DecodeProperties(buf); err != nil {
			return err
		}
	}
	for buf.Len() > 0 {
		filter, err := decodeString(buf)
		if err != nil {
			return err
		}
		b, err := decodeByte(buf)
		if err != nil {
			return err
		}
		opt, err := decodeSubscribeOption(b)
		if err != nil {
			return err
		}
		opt.Filter = filter
		pkt.Filters = append(pkt.Filters, opt)
	}
	if len(pkt.Filters) == 0 {
		return ErrProtocolViolationNoFilters
	}
	return nil
}
