package packet

import "bytes"

// Unsubscribe requests one or more topic filters be removed from the session.
type Unsubscribe struct {
	PacketID uint16
	Filters  []string

	Properties Properties // v5 only: UserProperty
}

func (pkt *Unsubscribe) Kind() byte   { return 0xA }
func (pkt *Unsubscribe) flags() byte { return 0x02 }

func (pkt *Unsubscribe) pack(version byte) ([]byte, error) {
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
		buf.Write(encodeString(f))
	}
	return buf.Bytes(), nil
}

func (pkt *Unsubscribe) unpack(fixed FixedHeader, buf *bytes.Buffer) error {
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
		pkt.Filters = append(pkt.Filters, filter)
	}
	if len(pkt.Filters) == 0 {
		return ErrProtocolViolationNoFilters
	}
	return nil
}
