package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/golang-io/requests"
)

// pahobench drives a broker with many concurrent github.com/eclipse/paho.mqtt.golang
// clients, independent of this module's own Client, so the two implementations'
// behavior against the same broker can be compared side by side.
func main() {
	broker := flag.String("broker", "tcp://127.0.0.1:1883", "broker URL")
	conns := flag.Int("conns", 100, "number of concurrent connections")
	qos := flag.Int("qos", 0, "publish/subscribe qos")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	group := sync.WaitGroup{}
	for i := 0; i < *conns; i++ {
		i := i
		group.Add(1)
		go func() {
			defer group.Done()
			pahoMqttStart(*broker, i, byte(*qos))
		}()
	}
	group.Wait()
}

func onMessageReceived(_ paho_mqtt.Client, message paho_mqtt.Message) {
	log.Printf("topic:%s, msg:%s", message.Topic(), message.Payload())
}

func pahoMqttStart(broker string, i int, qos byte) {
	id := requests.GenId()
	connOpts := paho_mqtt.NewClientOptions().AddBroker(broker).SetClientID(id).SetCleanSession(true)
	connOpts.SetAutoReconnect(false)

	client := paho_mqtt.NewClient(connOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}
	fmt.Printf("connected to %s as %s\n", broker, id)

	if token := client.Subscribe("+", qos, onMessageReceived); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}

	for range time.Tick(time.Second) {
		topic := fmt.Sprintf("topic_%02d", i)
		payload := fmt.Sprintf("pahobench:test-%02d", i)
		if t := client.Publish(topic, qos, false, payload); t.Wait() && t.Error() != nil {
			log.Println(t.Error())
			panic(t.Error())
		}
	}
}
