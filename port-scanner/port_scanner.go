package port_scanner

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"go-sentinel/probe"
)

// PortScanner scans a port range in one phase with a moderate timeout
// per port. It maintains a dynamic worker pool so completion of one
// probe immediately admits the next queued port, and invokes the
// standalone Connection Prober directly, outside the orchestrator.
type PortScanner struct {
	StartPort int
	EndPort   int
	Timeout   time.Duration

	// Dynamic scaling parameters.
	MinWorkers  int
	MaxWorkers  int
	IdleTimeout time.Duration

	// RateLimit bounds connection attempts per second.
	RateLimit int

	// OnProgress, when set, fires every ProgressCadence completions.
	OnProgress func(done, total int)
}

// ScanResult is the standalone scanner's output.
type ScanResult struct {
	Target  string
	Ports   []int
	Banners map[int]string
}

// Name returns the scanner name.
func (ps *PortScanner) Name() string {
	return "Port Scanner"
}

// Configure applies user-supplied settings.
func (ps *PortScanner) Configure(cfg Config) {
	ps.StartPort = cfg.StartPort
	ps.EndPort = cfg.EndPort
	ps.Timeout = time.Millisecond * time.Duration(cfg.Timeout)
	ps.MinWorkers = cfg.MinWorkers
	ps.MaxWorkers = cfg.MaxWorkers
	ps.IdleTimeout = time.Millisecond * time.Duration(cfg.IdleTimeout)
	ps.RateLimit = cfg.RateLimit
}

// worker drains the port channel through the prober until the channel
// closes or the worker sits idle past its timeout.
func (ps *PortScanner) worker(ctx context.Context, prober *probe.Prober, host string, currentWorkers *int32, portChan chan int, resultsChan chan probe.Result, done *int64, total int, wg *sync.WaitGroup) {
	defer wg.Done()
	idleTimer := time.NewTimer(ps.IdleTimeout)
	defer idleTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			atomic.AddInt32(currentWorkers, -1)
			return
		case port, ok := <-portChan:
			if !ok {
				atomic.AddInt32(currentWorkers, -1)
				return
			}
			if !idleTimer.Stop() {
				<-idleTimer.C
			}
			idleTimer.Reset(ps.IdleTimeout)

			res := prober.Probe(ctx, host, port)
			if res.Open {
				resultsChan <- res
			}

			completed := atomic.AddInt64(done, 1)
			if ps.OnProgress != nil && completed%ProgressCadence == 0 {
				ps.OnProgress(int(completed), total)
			}
		case <-idleTimer.C:
			atomic.AddInt32(currentWorkers, -1)
			return
		}
	}
}

// Run performs the port scan for the given host.
func (ps *PortScanner) Run(host string) (*ScanResult, error) {
	logrus.Infof("starting standalone port scan on %s (%d-%d)", host, ps.StartPort, ps.EndPort)

	total := ps.EndPort - ps.StartPort + 1
	totalTimeout := time.Duration(total)*ps.Timeout + 5*time.Second
	ctx, cancel := context.WithTimeout(context.Background(), totalTimeout)
	defer cancel()

	prober := probe.New(ps.Timeout, ps.RateLimit)
	portChan := make(chan int, 100)
	resultsChan := make(chan probe.Result, total)

	var wg sync.WaitGroup
	var done int64
	currentWorkers := int32(ps.MinWorkers)

	for i := 0; i < ps.MinWorkers; i++ {
		wg.Add(1)
		go ps.worker(ctx, prober, host, &currentWorkers, portChan, resultsChan, &done, total, &wg)
	}

	// Producer: enqueue ports, scaling the pool when the backlog grows.
	go func() {
		for port := ps.StartPort; port <= ps.EndPort; port++ {
			select {
			case <-ctx.Done():
				return
			default:
				portChan <- port
				if len(portChan) > 10 && atomic.LoadInt32(&currentWorkers) < int32(ps.MaxWorkers) {
					atomic.AddInt32(&currentWorkers, 1)
					wg.Add(1)
					go ps.worker(ctx, prober, host, &currentWorkers, portChan, resultsChan, &done, total, &wg)
				}
			}
		}
		close(portChan)
	}()

	wg.Wait()
	close(resultsChan)

	result := &ScanResult{Target: host, Banners: make(map[int]string)}
	for res := range resultsChan {
		result.Ports = append(result.Ports, res.Port)
		if len(res.Banner) > 0 {
			result.Banners[res.Port] = string(res.Banner)
		}
	}
	sort.Ints(result.Ports)

	if ps.OnProgress != nil {
		ps.OnProgress(total, total)
	}
	logrus.Infof("open ports on %s: %v", host, result.Ports)
	return result, nil
}
