package packet

import (
	"bytes"
	"testing"
)

func TestPingRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, VERSION311, &Pingreq{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0xC0, 0x00}) {
		t.Fatalf("PINGREQ should be exactly {0xC0,0x00}, got %x", buf.Bytes())
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
	if p.Kind() != 0xC {
		t.Errorf("got kind %x", p.Kind())
	}

	buf.Reset()
	if err := Encode(&buf, VERSION311, &Pingresp{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0xD0, 0x00}) {
		t.Fatalf("PINGRESP should be exactly {0xD0,0x00}, got %x", buf.Bytes())
	}
}

func TestDisconnectShortForm(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, VERSION500, &Disconnect{ReasonCode: CodeNormalDisconnection}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2 {
		t.Fatalf("short-form DISCONNECT should be 2 bytes, got %d", buf.Len())
	}
}

func TestDisconnectWithReasonAndProperties(t *testing.T) {
	pkt := &Disconnect{
		ReasonCode: ErrServerShuttingDown,
		Properties: Properties{NewStringProperty(ReasonString, "maintenance")},
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
	got := p.(*Disconnect)
	if got.ReasonCode.Code != ErrServerShuttingDown.Code {
		t.Errorf("reason code = %x", got.ReasonCode.Code)
	}
	if s, ok := got.Properties.String(ReasonString); !ok || s != "maintenance" {
		t.Errorf("reason string = %q, %v", s, ok)
	}
}

func TestDisconnectV311HasNoBody(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, VERSION311, &Disconnect{ReasonCode: ErrServerShuttingDown}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2 {
		t.Fatalf("v3.1.1 DISCONNECT must have no body, got %d bytes", buf.Len())
	}
}

func TestAuthRoundTrip(t *testing.T) {
	pkt := &Auth{
		ReasonCode: CodeContinueAuthentication,
		Properties: Properties{
			NewStringProperty(AuthenticationMethod, "SCRAM-SHA-1"),
			NewBinaryProperty(AuthenticationData, []byte{0x01, 0x02, 0x03}),
		},
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
	got := p.(*Auth)
	if got.ReasonCode.Code != CodeContinueAuthentication.Code {
		t.Errorf("reason code = %x", got.ReasonCode.Code)
	}
	if m, ok := got.Properties.String(AuthenticationMethod); !ok || m != "SCRAM-SHA-1" {
		t.Errorf("auth method = %q, %v", m, ok)
	}
}
