package port_scanner

// Config defines the settings an end user may tune on the standalone
// scanners.
type Config struct {
	StartPort   int `json:"start_port"`
	EndPort     int `json:"end_port"`
	Timeout     int `json:"timeout"` // milliseconds, per probe
	MinWorkers  int `json:"min_workers"`
	MaxWorkers  int `json:"max_workers"`
	IdleTimeout int `json:"idle_timeout"` // milliseconds
	RateLimit   int `json:"rate_limit"`   // attempts per second, 0 = unlimited
}

// ProgressCadence controls how often progress callbacks fire: every
// N completed probes, not on every single one.
const ProgressCadence = 10

// discoveryPorts are the ports tried when checking host liveness.
var discoveryPorts = []int{22, 80, 443, 445, 3389}
