package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	mqttclient "github.com/golang-io/mqttclient"
	"github.com/golang-io/mqttclient/packet"
)

func main() {
	url := flag.String("url", "mqtt://127.0.0.1:1883", "broker URL")
	clientID := flag.String("client-id", "", "client id (default: generated)")
	filter := flag.String("filter", "+", "topic filter to subscribe")
	publishTopic := flag.String("publish-topic", "cmd/heartbeat", "topic to publish a heartbeat message to")
	qos := flag.Int("qos", 0, "publish/subscribe qos")
	flag.Parse()

	opts := []mqttclient.Option{mqttclient.WithURL(*url)}
	if *clientID != "" {
		opts = append(opts, mqttclient.WithClientID(*clientID))
	}
	c, err := mqttclient.New(opts...)
	if err != nil {
		log.Fatalf("new client: %v", err)
	}

	c.AddPublishListener("log", func(msg *mqttclient.PublishMessage, err error) {
		if err != nil {
			log.Printf("publish decode error: %v", err)
			return
		}
		log.Printf("recv %s: %s", msg.Topic, msg.Payload)
	})
	c.AddCloseListener("log", func(err error) {
		log.Printf("connection closed: %v", err)
	})

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := c.Connect(ctx); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		if _, err := c.Subscribe(ctx, []packet.SubscribeOption{{Filter: *filter, QoS: uint8(*qos)}}, nil); err != nil {
			return fmt.Errorf("subscribe: %w", err)
		}
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			_, err := c.Publish(ctx, mqttclient.PublishRequest{
				Topic:   *publishTopic,
				Payload: []byte(time.Now().Format(time.RFC3339)),
				QoS:     uint8(*qos),
			})
			if err != nil {
				log.Printf("publish: %v", err)
			}
			time.Sleep(time.Second)
		}
	})

	group.Go(func() error {
		defer cancel()
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-sig:
			return fmt.Errorf("got signal: %s", s)
		}
	})

	if err := group.Wait(); err != nil {
		log.Printf("exiting: %v", err)
	}
	_ = c.Disconnect(context.Background(), packet.CodeNormalDisconnection, nil)
}
