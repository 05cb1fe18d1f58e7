package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

const remoteJob = "chemmarket"

var (
	shipClient = &http.Client{Timeout: 5 * time.Second}
	remoteURI  string
	remoteOnce sync.Once
)

// sendLog ships a log entry to the remote endpoint in the background. Shipping
// is best effort: failures go to stderr and never block the request path.
func sendLog(level, message string, attrs []slog.Attr) {
	remoteOnce.Do(func() {
		remoteURI = os.Getenv("REMOTE_LOG_HTTP_URI")
	})
	if remoteURI == "" {
		return
	}

	go func() {
		payload, err := json.Marshal(lokiEntry(level, message, attrs))
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote log marshal failed: %v\n", err)
			return
		}

		req, err := http.NewRequest(http.MethodPost, remoteURI, bytes.NewReader(payload))
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote log request failed: %v\n", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := shipClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote log send failed: %v\n", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			fmt.Fprintf(os.Stderr, "remote log endpoint returned %d\n", resp.StatusCode)
		}
	}()
}

// lokiEntry wraps one log line in the Loki push payload shape.
func lokiEntry(level, message string, attrs []slog.Attr) map[string]any {
	line := map[string]any{
		"level":   level,
		"message": message,
		"time":    time.Now().Format(time.RFC3339),
	}
	for _, attr := range attrs {
		line[attr.Key] = attr.Value.Any()
	}
	lineJSON, _ := json.Marshal(line)

	return map[string]any{
		"streams": []map[string]any{
			{
				"stream": map[string]string{"level": level, "job": remoteJob},
				"values": [][]string{
					{fmt.Sprintf("%d", time.Now().UnixNano()), string(lineJSON)},
				},
			},
		},
	}
}
