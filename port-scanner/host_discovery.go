package port_scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"go-sentinel/probe"
	"go-sentinel/target"
)

// HostDiscoverer finds live hosts by TCP-pinging a handful of common
// ports across an expanded target list.
type HostDiscoverer struct {
	Timeout time.Duration
	Workers int
	Ports   []int

	// OnProgress fires every ProgressCadence completed hosts.
	OnProgress func(done, total int)
}

// Discover expands the specs and returns the hosts that answered on at
// least one discovery port, in completion order.
func (d *HostDiscoverer) Discover(ctx context.Context, specs []string) []string {
	hosts := target.ExpandAll(specs)
	if len(hosts) == 0 {
		return nil
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	ports := d.Ports
	if len(ports) == 0 {
		ports = discoveryPorts
	}
	workers := d.Workers
	if workers <= 0 {
		workers = 20
	}
	if workers > len(hosts) {
		workers = len(hosts)
	}

	logrus.Infof("discovering live hosts among %d candidates", len(hosts))

	prober := probe.New(timeout, 0)
	hostChan := make(chan string)
	aliveChan := make(chan string, len(hosts))

	var wg sync.WaitGroup
	var done int64
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range hostChan {
				if alive(ctx, prober, host, ports) {
					aliveChan <- host
				}
				completed := atomic.AddInt64(&done, 1)
				if d.OnProgress != nil && completed%ProgressCadence == 0 {
					d.OnProgress(int(completed), len(hosts))
				}
			}
		}()
	}

	go func() {
		defer close(hostChan)
		for _, h := range hosts {
			select {
			case <-ctx.Done():
				return
			case hostChan <- h:
			}
		}
	}()

	wg.Wait()
	close(aliveChan)

	var live []string
	for h := range aliveChan {
		live = append(live, h)
	}
	if d.OnProgress != nil {
		d.OnProgress(len(hosts), len(hosts))
	}
	logrus.Infof("%d of %d hosts alive", len(live), len(hosts))
	return live
}

// alive stops at the first port that accepts a connection.
func alive(ctx context.Context, prober *probe.Prober, host string, ports []int) bool {
	for _, port := range ports {
		if ctx.Err() != nil {
			return false
		}
		if prober.Probe(ctx, host, port).Open {
			return true
		}
	}
	return false
}
