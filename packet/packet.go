package packet

import (
	"bytes"
	"io"
)

// Packet is any of the 15 MQTT control packet types. Encode and Decode in this
// file are the only entry points callers need; the per-type
// pack/unpack methods are an implementation detail of the dispatch table below.
type Packet interface {
	Kind() byte
	flags() byte
	pack(version byte) ([]byte, error)
	unpack(fixed FixedHeader, body *bytes.Buffer) error
}

// Encode writes the fixed header followed by p's variable header and payload
// to w, for the given protocol version.
func Encode(w io.Writer, version byte, p Packet) error {
	body, err := p.pack(version)
	if err != nil {
		return err
	}
	header, err := encodeFixedHeader(p.Kind(), p.flags(), uint32(len(body)))
	if err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

func newPacket(kind byte) (Packet, error) {
	switch kind {
	case 0x1:
		return &Connect{}, nil
	case 0x2:
		return &Connack{}, nil
	case 0x3:
		return &Publish{}, nil
	case 0x4:
		return &Puback{}, nil
	case 0x5:
		return &Pubrec{}, nil
	case 0x6:
		return &Pubrel{}, nil
	case 0x7:
		return &Pubcomp{}, nil
	case 0x8:
		return &Subscribe{}, nil
	case 0x9:
		return &Suback{}, nil
	case 0xA:
		return &Unsubscribe{}, nil
	case 0xB:
		return &Unsuback{}, nil
	case 0xC:
		return &Pingreq{}, nil
	case 0xD:
		return &Pingresp{}, nil
	case 0xE:
		return &Disconnect{}, nil
	case 0xF:
		return &Auth{}, nil
	default:
		return nil, ErrMalformedPacket
	}
}

// Decode builds the packet named by fixed.Kind from body, which must hold
// exactly fixed.RemainingLength bytes (the frame decoder guarantees this; see
// FrameDecoder.Next). The frame decoder does not validate the fixed-header
// flag bits; checkReservedFlags is applied here, so frames from the decoder
// and FixedHeaders constructed by hand (tests) get the same validation.
func Decode(fixed FixedHeader, body []byte) (Packet, error) {
	if err := checkReservedFlags(fixed.Kind, fixed.Dup, fixed.QoS, fixed.Retain); err != nil {
		return nil, err
	}
	pkt, err := newPacket(fixed.Kind)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(body)
	if err := pkt.unpack(fixed, buf); err != nil {
		return nil, err
	}
	return pkt, nil
}
