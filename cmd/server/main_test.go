package main

import (
	"testing"
	"time"
)

func TestWriteTimeoutCoversSequentialBackendCalls(t *testing.T) {
	backend := 15 * time.Second
	got := writeTimeout(backend)
	if got <= 3*backend {
		t.Errorf("writeTimeout(%s) = %s, want more than three backend timeouts", backend, got)
	}
}

func TestServeCommandFlags(t *testing.T) {
	cmd := newServeCmd()
	for _, name := range []string{"env-file", "port", "backend-url", "public-url", "backend-timeout", "log-level", "log-format"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected flag --%s", name)
		}
	}
}
