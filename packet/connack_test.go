package packet

import (
	"bytes"
	"testing"
)

func TestConnackRoundTripV311(t *testing.T) {
	pkt := &Connack{SessionPresent: true, ReasonCode: CodeSuccess}
	var buf bytes.Buffer
	if err := Encode(&buf, VERSION311, pkt); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 4 {
		t.Fatalf("v3.1.1 CONNACK should be exactly 4 bytes, got %d", buf.Len())
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
	got := p.(*Connack)
	if !got.SessionPresent || got.ReasonCode.Code != CodeSuccess.Code {
		t.Errorf("got %+v", got)
	}
}

func TestConnackRejectionV500(t *testing.T) {
	pkt := &Connack{
		ReasonCode: ErrNotAuthorized,
		Properties: Properties{NewStringProperty(ReasonString, "client blocked")},
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
	got := p.(*Connack)
	if got.ReasonCode.Code != ErrNotAuthorized.Code {
		t.Errorf("reason code = %x, want %x", got.ReasonCode.Code, ErrNotAuthorized.Code)
	}
	if s, ok := got.Properties.String(ReasonString); !ok || s != "client blocked" {
		t.Errorf("reason string = %q, %v", s, ok)
	}
}
