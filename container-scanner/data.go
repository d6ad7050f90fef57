package container_scanner

import "go-sentinel/models"

// exposure describes one well-known platform port together with the
// unauthenticated path that confirms it and the severity of each state.
type exposure struct {
	Port        int
	Platform    string
	Service     string
	TLS         bool            // confirmation GET goes over https
	OpenSev     models.Severity // port answered
	ConfirmPath string          // GET path proving unauthenticated access, "" = none
	ConfirmSev  models.Severity // confirmed exposure
	Description string
}

var exposures = []exposure{
	{2375, "docker", "Docker daemon (plaintext)", false, models.SeverityHigh, "/version", models.SeverityCritical,
		"An unauthenticated Docker daemon grants full host control."},
	{2376, "docker", "Docker daemon (TLS)", true, models.SeverityMedium, "", models.SeverityMedium,
		"The TLS Docker socket is reachable; verify client certificate auth is enforced."},
	{5000, "docker", "Docker registry", false, models.SeverityMedium, "/v2/_catalog", models.SeverityHigh,
		"An open registry catalog leaks image names and may allow pulls."},
	{6443, "kubernetes", "Kubernetes API server", true, models.SeverityHigh, "/version", models.SeverityCritical,
		"An unauthenticated API server grants cluster admin primitives."},
	{8080, "kubernetes", "Kubernetes API (insecure port)", false, models.SeverityHigh, "/api", models.SeverityCritical,
		"The insecure API port bypasses all authentication and authorization."},
	{10250, "kubernetes", "Kubelet API", true, models.SeverityHigh, "/pods", models.SeverityCritical,
		"The kubelet API allows exec into containers when unauthenticated."},
	{10255, "kubernetes", "Kubelet read-only API", false, models.SeverityMedium, "/pods", models.SeverityMedium,
		"The read-only kubelet port leaks pod specs and metadata."},
	{2379, "kubernetes", "etcd client", false, models.SeverityHigh, "", models.SeverityHigh,
		"etcd stores all cluster state including secrets."},
	{2380, "kubernetes", "etcd peer", false, models.SeverityHigh, "", models.SeverityHigh,
		"The etcd peer port should never be reachable from outside the control plane."},
	{8443, "openshift", "OpenShift API server", true, models.SeverityHigh, "/version", models.SeverityCritical,
		"An unauthenticated OpenShift API server grants cluster control."},
	{1936, "openshift", "OpenShift router stats", false, models.SeverityMedium, "/healthz", models.SeverityMedium,
		"Router statistics leak backend topology."},
}

// advisory is a benchmark checklist item needing manual review. These
// produce info findings only and are never conflated with confirmed
// technical findings.
type advisory struct {
	Framework string
	Control   string
	Text      string
}

var advisories = []advisory{
	{"CIS Docker Benchmark", "2.1", "Restrict network traffic between containers on the default bridge."},
	{"CIS Docker Benchmark", "2.8", "Enable user namespace support on the daemon."},
	{"CIS Docker Benchmark", "4.5", "Enable Docker Content Trust for image signature verification."},
	{"CIS Kubernetes Benchmark", "1.2.1", "Ensure the API server does not allow anonymous auth."},
	{"CIS Kubernetes Benchmark", "4.2.6", "Ensure the kubelet protects its ports with authentication."},
	{"NIST SP 800-190", "3.1", "Use purpose-built, minimal base images for containers."},
	{"NIST SP 800-190", "4.4", "Segment container network traffic by sensitivity level."},
}
