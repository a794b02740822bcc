package mqttclient

import "go.uber.org/zap"

// newLogger returns the client's default logger: a production zap config
// with ISO8601 timestamps, suitable for a long-lived connection that logs
// state transitions rather than per-request traffic.
func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails on a broken encoder config; fall back
		// to a no-op logger rather than panic a library caller never asked to
		// configure logging.
		return zap.NewNop()
	}
	return logger
}
