package gelf

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP. It implements io.Writer so it can be
// attached to the zap logger as an extra sink; each Write is one zap JSON entry.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New resolves addr (host:port of a GELF UDP input) and returns a Writer
// tagging every message with service.
func New(addr, service string) (*Writer, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("gelf: resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("gelf: dial %s: %w", addr, err)
	}
	return &Writer{conn: conn, hostname: sourceHost(service), service: service}, nil
}

func sourceHost(service string) string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return service + "-server"
}

// syslog severities
var levels = map[string]int{
	"debug":  7,
	"info":   6,
	"warn":   4,
	"error":  3,
	"dpanic": 2,
	"panic":  2,
	"fatal":  1,
}

// Write converts one zap JSON line into a GELF 1.1 message. Lines that are
// not JSON are forwarded verbatim as short_message.
func (w *Writer) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		entry = map[string]any{"msg": line}
	}

	msg := map[string]any{
		"version":   "1.1",
		"host":      w.hostname,
		"timestamp": float64(time.Now().UnixNano()) / 1e9,
		"level":     6,
		"_service":  w.service,
	}
	for k, v := range entry {
		switch k {
		case "msg":
			msg["short_message"] = v
		case "level":
			if s, ok := v.(string); ok {
				if lvl, ok := levels[s]; ok {
					msg["level"] = lvl
				}
			}
		case "time":
			// zap's timestamp is replaced by the numeric GELF one
		case "stacktrace":
			msg["full_message"] = v
		default:
			// GELF reserves _id
			if k == "id" {
				k = "record_id"
			}
			if v = additional(v); v != nil {
				msg["_"+k] = v
			}
		}
	}
	if _, ok := msg["short_message"]; !ok {
		msg["short_message"] = line
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}

// additional flattens a field value to the string or number GELF accepts.
// Objects and arrays are sent as their JSON text.
func additional(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string, float64:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// Sync satisfies zapcore.WriteSyncer; UDP has nothing to flush.
func (w *Writer) Sync() error { return nil }

func (w *Writer) Close() error {
	return w.conn.Close()
}
