//go:build !tinygo

package hal

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostNetworkDropsConnections(t *testing.T) {
	var out bytes.Buffer
	n := &hostNetwork{logger: newHostLogger(&out, "warn", false)}

	ln, err := n.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	addr := ln.(net.Listener).Addr().String()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = conn.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err, "connection should be dropped")
}

func TestHostNetworkListenError(t *testing.T) {
	n := &hostNetwork{logger: newHostLogger(io.Discard, "info", false)}
	_, err := n.Listen("not-an-address")
	assert.Error(t, err)
}
