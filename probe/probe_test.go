package probe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startListener returns a loopback listener that writes banner to every
// accepted connection.
func startListener(t *testing.T, banner string) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			if banner != "" {
				_, _ = conn.Write([]byte(banner))
			}
			time.Sleep(50 * time.Millisecond)
			conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port
}

func TestProbe_OpenPortWithBanner(t *testing.T) {
	host, port := startListener(t, "SSH-2.0-OpenSSH_8.9\r\n")

	p := New(time.Second, 0)
	res := p.Probe(context.Background(), host, port)

	assert.True(t, res.Open)
	assert.Contains(t, string(res.Banner), "SSH-2.0")
}

func TestProbe_ClosedPort(t *testing.T) {
	// Grab a port and close it again so nothing listens there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	p := New(500*time.Millisecond, 0)
	res := p.Probe(context.Background(), "127.0.0.1", port)

	assert.False(t, res.Open)
	assert.Nil(t, res.Banner)
	assert.Error(t, res.Err)
}

func TestProbe_SilentServiceStillOpen(t *testing.T) {
	host, port := startListener(t, "")

	p := New(300*time.Millisecond, 0)
	res := p.Probe(context.Background(), host, port)

	assert.True(t, res.Open)
	assert.Empty(t, res.Banner)
}

func TestProbe_BannerCapped(t *testing.T) {
	big := make([]byte, 4*BannerLimit)
	for i := range big {
		big[i] = 'a'
	}
	host, port := startListener(t, string(big))

	p := New(time.Second, 0)
	res := p.Probe(context.Background(), host, port)

	assert.True(t, res.Open)
	assert.LessOrEqual(t, len(res.Banner), BannerLimit)
}

func TestProbeSend_CustomPayload(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 64)
		n, _ := conn.Read(buf)
		if string(buf[:n]) == "PING\r\n" {
			_, _ = conn.Write([]byte("+PONG\r\n"))
		}
		conn.Close()
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	p := New(time.Second, 0)
	res := p.ProbeSend(context.Background(), "127.0.0.1", port, []byte("PING\r\n"))

	assert.True(t, res.Open)
	assert.Contains(t, string(res.Banner), "+PONG")
}

func TestProbe_NeverPanicsOnBadHost(t *testing.T) {
	p := New(200*time.Millisecond, 0)
	assert.NotPanics(t, func() {
		res := p.Probe(context.Background(), "256.256.256.256", 80)
		assert.False(t, res.Open)
	})
}

func TestNew_DefaultTimeout(t *testing.T) {
	p := New(0, 0)
	assert.Equal(t, DefaultTimeout, p.Timeout)
}
