//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"net"
)

type hostNetwork struct {
	logger *hostLogger
}

// Listen binds addr and accepts connections, closing each one unanswered.
func (n *hostNetwork) Listen(addr string) (io.Closer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					n.logger.WriteLineString("warn: net: accept: " + err.Error())
				}
				return
			}
			n.logger.WriteLineString("debug: net: dropping connection from " + conn.RemoteAddr().String())
			_ = conn.Close()
		}
	}()
	return ln, nil
}
