//go:build !windows

package server

import (
	"errors"
	"net"
)

func listenNamedPipe(string) (net.Listener, error) {
	return nil, errors.New("npipe:// addresses are only supported on Windows")
}
