package packet

import (
	"bytes"
	"testing"
)

func TestSubscribeRoundTrip(t *testing.T) {
	pkt := &Subscribe{
		PacketID: 15,
		Filters: []SubscribeOption{
			{Filter: "sensors/+/temp", QoS: 1},
			{Filter: "alerts/#", QoS: 2, NoLocal: true, RetainAsPublished: true, RetainHandling: 1},
		},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, VERSION500, pkt); err != nil {
		t.Fatal(err)
	}
	if buf.Bytes()[0]&0x0F != 0x02 {
		t.Fatalf("SUBSCRIBE flags must be 0b0010")
	}
	var dec FrameDecoder
	dec.Feed(buf.Bytes())
	fixed, body, ok, err := dec.Next()
	if err != nil || !ok {
		t.Fatal(err)
	}
	fixed.Version = VERSION500
	p, err := Decode(fixed, body)
	if err != nil {
		t.Fatal(err)
	}
	got := p.(*Subscribe)
	if len(got.Filters) != 2 {
		t.Fatalf("got %d filters, want 2", len(got.Filters))
	}
	if got.Filters[0].Filter != "sensors/+/temp" || got.Filters[0].QoS != 1 {
		t.Errorf("filter 0: %+v", got.Filters[0])
	}
	if !got.Filters[1].NoLocal || !got.Filters[1].RetainAsPublished || got.Filters[1].RetainHandling != 1 {
		t.Errorf("filter 1: %+v", got.Filters[1])
	}
}

func TestSubscribeRejectsEmptyFilterList(t *testing.T) {
	pkt := &Subscribe{PacketID: 1}
	var buf bytes.Buffer
	if err := Encode(&buf, VERSION311, pkt); err != ErrProtocolViolationNoFilters {
		t.Fatalf("expected ErrProtocolViolationNoFilters, got %v", err)
	}
}

func TestSubackRoundTrip(t *testing.T) {
	pkt := &Suback{
		PacketID:    15,
		ReasonCodes: []ReasonCode{CodeGrantedQoS1, CodeGrantedQoS2, ErrTopicFilterInvalid},
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
	fixed.Version = VERSION500
	p, err := Decode(fixed, body)
	if err != nil {
		t.Fatal(err)
	}
	got := p.(*Suback)
	if len(got.ReasonCodes) != 3 || got.ReasonCodes[2].Code != ErrTopicFilterInvalid.Code {
		t.Errorf("got %+v", got.ReasonCodes)
	}
}

func TestUnsubscribeUnsubackRoundTrip(t *testing.T) {
	sub := &Unsubscribe{PacketID: 8, Filters: []string{"a/b", "c/d"}}
	var buf bytes.Buffer
	if err := Encode(&buf, VERSION311, sub); err != nil {
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
	got := p.(*Unsubscribe)
	if len(got.Filters) != 2 || got.Filters[1] != "c/d" {
		t.Errorf("got %+v", got.Filters)
	}

	ack := &Unsuback{PacketID: 8, ReasonCodes: []ReasonCode{CodeSuccess, ErrNotAuthorized}}
	buf.Reset()
	if err := Encode(&buf, VERSION500, ack); err != nil {
		t.Fatal(err)
	}
	dec = FrameDecoder{}
	dec.Feed(buf.Bytes())
	fixed, body, ok, err = dec.Next()
	if err != nil || !ok {
		t.Fatal(err)
	}
	fixed.Version = VERSION500
	p2, err := Decode(fixed, body)
	if err != nil {
		t.Fatal(err)
	}
	gotAck := p2.(*Unsuback)
	if len(gotAck.ReasonCodes) != 2 || gotAck.ReasonCodes[1].Code != ErrNotAuthorized.Code {
		t.Errorf("got %+v", gotAck.ReasonCodes)
	}
}
