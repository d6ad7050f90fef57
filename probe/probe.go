package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// BannerLimit caps how many response bytes a probe collects.
const BannerLimit = 1024

// DefaultTimeout applies when the caller does not set one.
const DefaultTimeout = 2 * time.Second

// Result reports the outcome of a single probe. Connection refusal,
// timeout and reset all surface as Open=false; Err is informational
// and never turns into a propagated error.
type Result struct {
	Host   string
	Port   int
	Open   bool
	Banner []byte
	Err    error
}

// Prober is the bounded TCP connect/banner-grab primitive shared by
// every host-facing module. Each probe enforces its own deadline
// independent of any outer scan timeout.
type Prober struct {
	Timeout time.Duration
	limiter *rate.Limiter
	dialer  net.Dialer
}

// New returns a Prober with the given per-probe timeout. attemptsPerSec
// bounds the connection attempt rate; zero disables pacing.
func New(timeout time.Duration, attemptsPerSec int) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Prober{Timeout: timeout}
	if attemptsPerSec > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(attemptsPerSec), attemptsPerSec)
	}
	return p
}

// Probe attempts a TCP connect to host:port, writes a protocol
// appropriate payload, and reads up to BannerLimit bytes within the
// probe timeout. It never panics and never returns an error to the
// caller: a scan over thousands of ports must not be interrupted by
// one socket failure.
func (p *Prober) Probe(ctx context.Context, host string, port int) Result {
	return p.probe(ctx, host, port, probePayload(port))
}

// ProbeSend behaves like Probe but writes the caller-supplied stimulus
// instead of the default payload for the port.
func (p *Prober) ProbeSend(ctx context.Context, host string, port int, payload []byte) Result {
	return p.probe(ctx, host, port, payload)
}

func (p *Prober) probe(ctx context.Context, host string, port int, payload []byte) Result {
	res := Result{Host: host, Port: port}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			res.Err = err
			return res
		}
	}

	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	dialCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		logrus.Tracef("port %d closed on %s (%v, in %v)", port, host, err, time.Since(start))
		res.Err = err
		return res
	}
	defer conn.Close()

	res.Open = true
	logrus.Debugf("port %d open on %s (in %v)", port, host, time.Since(start))

	deadline := time.Now().Add(p.Timeout)
	_ = conn.SetDeadline(deadline)

	if payload != nil {
		if _, err := conn.Write(payload); err != nil {
			// Connected but unwritable; the open verdict stands.
			return res
		}
	}

	buf := make([]byte, BannerLimit)
	n, err := conn.Read(buf)
	if n > 0 {
		res.Banner = buf[:n]
	} else if err != nil {
		// No banner within the deadline. Quiet services are common;
		// this is not a failure.
		logrus.Tracef("no banner from %s:%d (%v)", host, port, err)
	}
	return res
}

// probePayload returns the stimulus bytes for ports whose services
// only talk after a client request. Everything else gets a passive
// read: FTP, SSH and SMTP greet on connect.
func probePayload(port int) []byte {
	switch port {
	case 80, 8080, 8000, 3000, 8443, 443:
		return []byte("HEAD / HTTP/1.1\r\nHost: sentinel\r\nUser-Agent: sentinel-scanner\r\nConnection: close\r\n\r\n")
	case 25, 587:
		return []byte("EHLO sentinel.local\r\n")
	default:
		return nil
	}
}
