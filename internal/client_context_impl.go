package internal

import (
	"github.com/aerodata/go-aerodata/subsystems"
)

// ClientContextImpl is the client's standard implementation of subsystems.ClientContext.
//
// It exists as a named type, rather than the client using subsystems.BasicClientContext directly,
// so that built-in components can receive internal context properties that are not part of the
// public interface without an API change.
type ClientContextImpl struct {
	subsystems.BasicClientContext
}
