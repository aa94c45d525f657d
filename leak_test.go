package arco

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies that no package test leaves a background goroutine
// running — relevant here because RingQueue-backed components (Engine,
// ReplyAdapter) are designed to be safe for a separate draining
// goroutine, and a test that spins one up without stopping it would
// otherwise go unnoticed.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
