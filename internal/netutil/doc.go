// Package netutil allocates listen ports for locally spawned services.
// Its central type, PortRegistry, asks the kernel for ephemeral ports and
// tracks which ones this process has handed out, so two services started
// concurrently never receive the same port from the TOCTOU window between
// closing the probe listener and the service binding it.
package netutil
