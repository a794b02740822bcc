package mqttclient

import (
	"context"
	"testing"

	"github.com/golang-io/mqttclient/packet"
)

func TestSubscribeSuccess(t *testing.T) {
	c, b := newFakeClient(t, packet.VERSION311)
	defer b.close()
	if err := connectAndAccept(t, c, b, false); err != nil {
		t.Fatalf("connect: %v", err)
	}

	resCh := make(chan *SubscribeResult, 1)
	errCh := make(chan error, 1)
	go func() {
		res, err := c.Subscribe(context.Background(), []packet.SubscribeOption{{Filter: "a/b", QoS: 1}}, nil)
		resCh <- res
		errCh <- err
	}()

	sub := b.next().(*packet.Subscribe)
	if len(sub.Filters) != 1 || sub.Filters[0].Filter != "a/b" {
		t.Fatalf("unexpected subscribe: %+v", sub)
	}
	b.send(&packet.Suback{PacketID: sub.PacketID, ReasonCodes: []packet.ReasonCode{packet.CodeGrantedQoS1}})

	if err := <-errCh; err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	res := <-resCh
	if len(res.ReasonCodes) != 1 || res.ReasonCodes[0].Code != packet.CodeGrantedQoS1.Code {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSubscribeRequiresAtLeastOneFilter(t *testing.T) {
	c, b := newFakeClient(t, packet.VERSION311)
	defer b.close()
	if err := connectAndAccept(t, c, b, false); err != nil {
		t.Fatalf("connect: %v", err)
	}
	_, err := c.Subscribe(context.Background(), nil, nil)
	if err != ErrAtLeastOneTopicRequired {
		t.Fatalf("expected ErrAtLeastOneTopicRequired, got %v", err)
	}
}

func TestUnsubscribeSuccess(t *testing.T) {
	c, b := newFakeClient(t, packet.VERSION500)
	defer b.close()
	if err := connectAndAccept(t, c, b, false); err != nil {
		t.Fatalf("connect: %v", err)
	}

	resCh := make(chan *SubscribeResult, 1)
	errCh := make(chan error, 1)
	go func() {
		res, err := c.Unsubscribe(context.Background(), []string{"a/b"}, nil)
		resCh <- res
		errCh <- err
	}()

	unsub := b.next().(*packet.Unsubscribe)
	if len(unsub.Filters) != 1 || unsub.Filters[0] != "a/b" {
		t.Fatalf("unexpected unsubscribe: %+v", unsub)
	}
	b.send(&packet.Unsuback{PacketID: unsub.PacketID, ReasonCodes: []packet.ReasonCode{packet.CodeSuccess}})

	if err := <-errCh; err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	res := <-resCh
	if len(res.ReasonCodes) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSubscribeRejectsQoSAboveNegotiatedMax(t *testing.T) {
	c, b := newFakeClient(t, packet.VERSION500)
	defer b.close()
	if err := connectAndAccept(t, c, b, false); err != nil {
		t.Fatalf("connect: %v", err)
	}
	c.negotiated.maxQoS = 1

	_, err := c.Subscribe(context.Background(), []packet.SubscribeOption{{Filter: "a/b", QoS: 2}}, nil)
	if err != ErrQosInvalid {
		t.Fatalf("expected ErrQosInvalid, got %v", err)
	}
}
