package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// dir is where all local observability artifacts live. Nothing under it is
// conversation state; the remote service owns the conversation.
const dir = ".assistant"

// Emit writes a single JSON line to .assistant/events.jsonl when
// MP_OBSERVE_JSON=1. It augments fields with RFC3339Nano time and the
// event name.
func Emit(name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}

	// Shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}

	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
		return
	}
}

// PersistPayload saves a raw API request or response body under
// .assistant/payloads/ when MP_PERSIST_API_PAYLOADS=1. kind names the
// payload (e.g. "run_retrieve_response"); the file name carries a
// nanosecond timestamp so repeated payloads of one kind never collide.
func PersistPayload(kind string, body []byte) {
	if !PersistPayloadsEnabled() {
		return
	}

	pdir := filepath.Join(dir, "payloads")
	if err := os.MkdirAll(pdir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", pdir, err)
		return
	}

	name := fmt.Sprintf("%d-%s.json", time.Now().UTC().UnixNano(), kind)
	path := filepath.Join(pdir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
	}
}

// LoadPayloads reads back all persisted payload bodies in file-name order.
// Used by tests and offline inspection; returns nil when the directory is
// absent.
func LoadPayloads() ([][]byte, error) {
	pdir := filepath.Join(dir, "payloads")
	entries, err := os.ReadDir(pdir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out [][]byte
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(pdir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
