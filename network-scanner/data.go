package network_scanner

import "go-sentinel/models"

// DefaultPorts is the commonly-risky port list scanned when the caller
// does not supply one.
var DefaultPorts = []int{21, 22, 23, 25, 80, 110, 111, 135, 139, 143, 443, 445, 1723, 3306, 3389, 5900}

// portRisk assigns a severity to an open port. Entries are heuristics,
// overridable per scan through ScanConfig.PortRisk.
var portRisk = map[int]models.Severity{
	23:   models.SeverityHigh, // Telnet
	111:  models.SeverityHigh, // RPC
	135:  models.SeverityHigh, // MSRPC
	139:  models.SeverityHigh, // NetBIOS
	445:  models.SeverityHigh, // SMB
	1723: models.SeverityHigh, // PPTP
	21:   models.SeverityMedium,
	25:   models.SeverityMedium,
	110:  models.SeverityMedium,
	143:  models.SeverityMedium,
	22:   models.SeverityLow,
	80:   models.SeverityInfo,
	443:  models.SeverityInfo,
}

// bannerVuln flags known-vulnerable software by banner substring.
type bannerVuln struct {
	Substring   string
	Title       string
	Description string
	Severity    models.Severity
	CVE         string
}

var bannerVulns = []bannerVuln{
	{
		Substring:   "OpenSSH_7.2",
		Title:       "Outdated OpenSSH version",
		Description: "OpenSSH 7.2 is affected by known user enumeration issues.",
		Severity:    models.SeverityMedium,
		CVE:         "CVE-2016-6210",
	},
	{
		Substring:   "OpenSSH_5.",
		Title:       "Obsolete OpenSSH version",
		Description: "OpenSSH 5.x is end of life and carries multiple unpatched issues.",
		Severity:    models.SeverityHigh,
		CVE:         "CVE-2010-4478",
	},
	{
		Substring:   "Apache/2.4.49",
		Title:       "Apache path traversal",
		Description: "Apache 2.4.49 allows path traversal and remote code execution.",
		Severity:    models.SeverityCritical,
		CVE:         "CVE-2021-41773",
	},
	{
		Substring:   "Apache/2.2",
		Title:       "Obsolete Apache version",
		Description: "Apache 2.2 is end of life and no longer receives security fixes.",
		Severity:    models.SeverityHigh,
		CVE:         "CVE-2017-7679",
	},
	{
		Substring:   "nginx/1.16",
		Title:       "Outdated nginx version",
		Description: "nginx 1.16 is past end of support.",
		Severity:    models.SeverityMedium,
		CVE:         "CVE-2019-9516",
	},
	{
		Substring:   "ProFTPD 1.3.3",
		Title:       "Vulnerable ProFTPD version",
		Description: "ProFTPD 1.3.3c was distributed with a backdoored release.",
		Severity:    models.SeverityCritical,
		CVE:         "CVE-2010-4221",
	},
	{
		Substring:   "vsFTPd 2.3.4",
		Title:       "Backdoored vsFTPd version",
		Description: "vsFTPd 2.3.4 contains a known backdoor granting a root shell.",
		Severity:    models.SeverityCritical,
		CVE:         "CVE-2011-2523",
	},
}
