package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

type entry struct {
	Level      string            `json:"level"`
	Message    string            `json:"message"`
	Properties map[string]string `json:"properties"`
	Trace      string            `json:"trace"`
}

func decode(t *testing.T, buf *bytes.Buffer) entry {
	t.Helper()
	var e entry
	if err := json.NewDecoder(buf).Decode(&e); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestJSONLogger(t *testing.T) {
	t.Run("below minimum level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelError)
		l.PrintInfo("ignored", nil)
		l.PrintWarn("ignored", nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output; got %q", buf.String())
		}
	})

	t.Run("INFO level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintInfo("starting server", map[string]string{"addr": ":4000"})
		e := decode(t, &buf)
		if e.Level != "INFO" || e.Message != "starting server" || e.Properties["addr"] != ":4000" {
			t.Errorf("unexpected entry %+v", e)
		}
		if e.Trace != "" {
			t.Errorf("expected no trace at INFO level")
		}
	})

	t.Run("WARN level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintWarn("asset deletion failed", map[string]string{"storage_id": "library/books/a.png"})
		e := decode(t, &buf)
		if e.Level != "WARN" || e.Properties["storage_id"] != "library/books/a.png" {
			t.Errorf("unexpected entry %+v", e)
		}
	})

	t.Run("ERROR level carries a trace", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintError(errors.New("boom"), nil)
		e := decode(t, &buf)
		if e.Level != "ERROR" || e.Message != "boom" || e.Trace == "" {
			t.Errorf("unexpected entry %+v", e)
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{"": LevelInfo, "info": LevelInfo, "WARN": LevelWarn, "error": LevelError, "fatal": LevelFatal, "off": LevelOff}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
