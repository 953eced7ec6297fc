package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("text handler honors level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Level: "warn", Format: "text"}, &buf)

		log.Info("dropped")
		log.Warn("kept")

		out := buf.String()
		if strings.Contains(out, "dropped") {
			t.Errorf("info record should be filtered at warn level, got: %s", out)
		}
		if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "kept") {
			t.Errorf("expected warn record, got: %s", out)
		}
	})

	t.Run("json handler emits valid records", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Level: "debug", Format: "json"}, &buf)

		log.Debug("review queued", "pr", 42)

		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
		}
		if record["msg"] != "review queued" || record["level"] != "DEBUG" {
			t.Errorf("unexpected record: %v", record)
		}
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Level: "loud", Format: "text"}, &buf)

		log.Debug("hidden")
		log.Info("visible")

		out := buf.String()
		if strings.Contains(out, "hidden") || !strings.Contains(out, "visible") {
			t.Errorf("expected info-level fallback, got: %s", out)
		}
	})
}
