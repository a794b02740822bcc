package packet

import (
	"bytes"
	"testing"
)

func TestPublishRoundTripQoS0(t *testing.T) {
	pkt := &Publish{Topic: "sensors/temp", Payload: []byte("21.5")}
	var buf bytes.Buffer
	if err := Encode(&buf, VERSION311, pkt); err != nil {
		t.Fatal(err)
	}
	var dec FrameDecoder
	dec.Feed(buf.Bytes())
	fixed, body, ok, err := dec.Next()
	if err != nil || !ok {
		t.Fatal(err)
	}
	fixed.Version = VERSION311
	p, err := Decode(fixed, body)
	if err != nil {
		t.Fatal(err)
	}
	got := p.(*Publish)
	if got.Topic != pkt.Topic || !bytes.Equal(got.Payload, pkt.Payload) || got.QoS != 0 {
		t.Errorf("got %+v", got)
	}
	if got.PacketID != 0 {
		t.Errorf("QoS 0 publish should carry no packet id, got %d", got.PacketID)
	}
}

func TestPublishRoundTripQoS2WithDup(t *testing.T) {
	pkt := &Publish{
		Dup:      true,
		QoS:      2,
		Retain:   true,
		Topic:    "sensors/pressure",
		PacketID: 42,
		Payload:  []byte{0x01, 0x02, 0x03},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, VERSION500, pkt); err != nil {
		t.Fatal(err)
	}
	var dec FrameDecoder
	dec.Feed(buf.Bytes())
	fixed, body, ok, err := dec.Next()
	if err != nil || !ok {
		t.Fatal(err)
	}
	if !fixed.Dup || fixed.QoS != 2 || !fixed.Retain {
		t.Fatalf("fixed header flags not preserved: %+v", fixed)
	}
	fixed.Version = VERSION500
	p, err := Decode(fixed, body)
	if err != nil {
		t.Fatal(err)
	}
	got := p.(*Publish)
	if got.PacketID != 42 || !got.Dup || got.QoS != 2 || !got.Retain {
		t.Errorf("got %+v", got)
	}
	if !bytes.Equal(got.Payload, pkt.Payload) {
		t.Errorf("payload mismatch: %v", got.Payload)
	}
}

func TestPublishRejectsZeroPacketID(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(encodeString("topic"))
	buf.Write(encodeUint16(0))
	fixed := FixedHeader{Kind: 0x3, QoS: 1, Version: VERSION311}
	if _, err := Decode(fixed, buf.Bytes()); err != ErrMalformedPacketID {
		t.Fatalf("expected ErrMalformedPacketID, got %v", err)
	}
}
