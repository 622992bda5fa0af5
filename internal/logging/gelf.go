package logging

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

const (
	levelError = 3
	levelWarn  = 4
	levelInfo  = 6
)

type gelfMessage struct {
	Version      string  `json:"version"`
	Host         string  `json:"host"`
	ShortMessage string  `json:"short_message"`
	Timestamp    float64 `json:"timestamp"`
	Level        int     `json:"level"`
	Service      string  `json:"_service"`
}

// GELFWriter ships each log line to Graylog over UDP. Pair it with os.Stderr through
// io.MultiWriter so the console keeps working when Graylog is away.
type GELFWriter struct {
	conn     net.Conn
	hostname string
	service  string
	now      func() time.Time
}

func NewGELFWriter(addr, service string) (*GELFWriter, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service
	}
	return &GELFWriter{conn: conn, hostname: hostname, service: service, now: time.Now}, nil
}

func (w *GELFWriter) Write(p []byte) (int, error) {
	short := stripLogPrefix(strings.TrimRight(string(p), "\n"))

	payload, err := json.Marshal(gelfMessage{
		Version:      "1.1",
		Host:         w.hostname,
		ShortMessage: short,
		Timestamp:    float64(w.now().UnixNano()) / 1e9,
		Level:        levelFor(short),
		Service:      w.service,
	})
	if err != nil {
		return len(p), nil
	}
	// Fire-and-forget: a lost datagram must not fail the log call.
	w.conn.Write(payload)
	return len(p), nil
}

func (w *GELFWriter) Close() error {
	return w.conn.Close()
}

// stripLogPrefix removes the "2006/01/02 15:04:05 " header the log package adds.
func stripLogPrefix(msg string) string {
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		return msg[20:]
	}
	return msg
}

func levelFor(msg string) int {
	switch {
	case strings.HasPrefix(msg, "❌"), strings.Contains(msg, "PANIC"), strings.Contains(msg, "Fatal"):
		return levelError
	case strings.HasPrefix(msg, "⚠️"):
		return levelWarn
	default:
		return levelInfo
	}
}
