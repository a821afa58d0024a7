package netx

import "sync"

var (
	globalOnce   sync.Once
	globalServer *Socket
)

// SetupGlobalServer returns the process-wide socket.io server, creating it
// on first call
func SetupGlobalServer() *Socket {
	globalOnce.Do(func() {
		globalServer = NewSocket()
	})
	return globalServer
}
