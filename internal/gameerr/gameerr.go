// Package gameerr defines sentinel error values for the connection and
// simulation error kinds (§7), plus a github.com/pkg/errors wrapper for
// invariant violations. No other package in this module currently returns,
// wraps, or logs these values: the transport and engine report decode
// failures with the underlying encoding/json error, and stale store
// references are skipped without logging.
package gameerr

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// ErrDecode marks a malformed inbound payload. The connection reading it
// must terminate; the scheduler is never affected.
var ErrDecode = errors.New("gameerr: malformed inbound payload")

// ErrQueueClosed marks an attempt to send on a closed per-connection queue;
// treated identically to a disconnect.
var ErrQueueClosed = errors.New("gameerr: queue closed")

// ErrInvariant marks a detected invariant violation (e.g. a cell's internal
// index refers to a bomb ID no longer present in the bomb store). The
// simulation self-heals by treating the cell as Empty and continues; the
// caller is expected to log this at warning level, not propagate it.
var ErrInvariant = errors.New("gameerr: invariant violation")

// WrapInvariant annotates ErrInvariant with context (e.g. the offending
// position) for the warning log line, preserving the original sentinel so
// callers can still match it with errors.Is.
func WrapInvariant(context string) error {
	return pkgerrors.Wrap(ErrInvariant, context)
}
