package telemetry

import (
	"os"
)

var (
	observeEnabled         bool
	persistPayloadsEnabled bool
)

func init() {
	// Read once at process start. Mid-run environment changes have no effect
	// except for the explicit test overrides below.
	observeEnabled = os.Getenv("MP_OBSERVE_JSON") == "1"
	persistPayloadsEnabled = os.Getenv("MP_PERSIST_API_PAYLOADS") == "1"
}

// ObserveEnabled reports whether JSONL emission was enabled at startup.
func ObserveEnabled() bool {
	// Preserve startup-evaluated value, but allow tests to enable mid-run via env override.
	if os.Getenv("MP_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// PersistPayloadsEnabled reports whether request and response payload
// persistence was enabled at startup.
func PersistPayloadsEnabled() bool {
	if os.Getenv("MP_PERSIST_API_PAYLOADS") == "1" {
		return true
	}
	return persistPayloadsEnabled
}
