package mqttclient

import "github.com/prometheus/client_golang/prometheus"

// clientMetrics are the counters/gauges exposed per Client. Unlike the
// broker-side equivalent this tracks one connection's traffic rather than a
// fleet, so every metric carries a client_id label rather than being global.
type clientMetrics struct {
	connected      prometheus.Gauge
	packetsSent    prometheus.Counter
	packetsRecv    prometheus.Counter
	bytesSent      prometheus.Counter
	bytesRecv      prometheus.Counter
	publishAcked   prometheus.Counter
	publishFailed  prometheus.Counter
	reconnects     prometheus.Counter
}

func newClientMetrics(clientID string) *clientMetrics {
	labels := prometheus.Labels{"client_id": clientID}
	return &clientMetrics{
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mqtt_client_connected", Help: "1 if the client session is active", ConstLabels: labels,
		}),
		packetsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_client_packets_sent_total", Help: "Control packets written to the transport", ConstLabels: labels,
		}),
		packetsRecv: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_client_packets_received_total", Help: "Control packets read from the transport", ConstLabels: labels,
		}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_client_bytes_sent_total", Help: "Bytes written to the transport", ConstLabels: labels,
		}),
		bytesRecv: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_client_bytes_received_total", Help: "Bytes read from the transport", ConstLabels: labels,
		}),
		publishAcked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_client_publish_acked_total", Help: "QoS 1/2 publishes that completed successfully", ConstLabels: labels,
		}),
		publishFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_client_publish_failed_total", Help: "QoS 1/2 publishes that failed with a reason error", ConstLabels: labels,
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_client_reconnects_total", Help: "Reconnect attempts made by the session engine", ConstLabels: labels,
		}),
	}
}

// Register adds every collector to reg. Callers that don't want client
// metrics exported simply never call this.
func (m *clientMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.connected, m.packetsSent, m.packetsRecv, m.bytesSent, m.bytesRecv,
		m.publishAcked, m.publishFailed, m.reconnects,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
