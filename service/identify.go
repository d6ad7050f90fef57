package service

import (
	"regexp"
	"strings"
)

// Info names the software behind an open port.
type Info struct {
	Name    string
	Version string
	Vendor  string
}

var (
	sshBanner  = regexp.MustCompile(`^SSH-([\d.]+)-(\S+)`)
	ftpBanner  = regexp.MustCompile(`^220[ -](.+)`)
	smtpBanner = regexp.MustCompile(`^220[ -]([^\r\n]+)`)
)

// Identify classifies an open port from its banner, falling back to the
// default port table and finally to Unknown. Banner evidence always
// takes precedence over the port-number default: the matching is
// deterministic and order-sensitive.
func Identify(port int, banner []byte) Info {
	if len(banner) > 0 {
		if info, ok := fromBanner(port, string(banner)); ok {
			return info
		}
	}
	if name, ok := defaultPorts[port]; ok {
		return Info{Name: name}
	}
	return Info{Name: "Unknown"}
}

func fromBanner(port int, banner string) (Info, bool) {
	trimmed := strings.TrimSpace(banner)

	// HTTP family: identify the server software from the Server header.
	if strings.HasPrefix(trimmed, "HTTP/") {
		info := Info{Name: "HTTP"}
		if server := serverHeader(banner); server != "" {
			info.Version = server
			switch {
			case strings.Contains(strings.ToLower(server), "apache"):
				info.Vendor = "Apache"
			case strings.Contains(strings.ToLower(server), "nginx"):
				info.Vendor = "nginx"
			case strings.Contains(strings.ToLower(server), "iis"):
				info.Vendor = "Microsoft"
			}
		}
		return info, true
	}

	if m := sshBanner.FindStringSubmatch(trimmed); m != nil {
		return Info{Name: "SSH", Version: m[2]}, true
	}

	// 220 greetings are shared by FTP and SMTP; disambiguate on port.
	if port == 25 || port == 465 || port == 587 {
		if m := smtpBanner.FindStringSubmatch(trimmed); m != nil {
			return Info{Name: "SMTP", Version: strings.TrimSpace(m[1])}, true
		}
	}
	if m := ftpBanner.FindStringSubmatch(trimmed); m != nil {
		return Info{Name: "FTP", Version: strings.TrimSpace(m[1])}, true
	}

	if strings.HasPrefix(trimmed, "+PONG") || strings.HasPrefix(trimmed, "-ERR unknown command") {
		return Info{Name: "Redis"}, true
	}
	if strings.Contains(trimmed, "mysql_native_password") {
		return Info{Name: "MySQL", Vendor: "Oracle"}, true
	}

	return Info{}, false
}

// serverHeader extracts the Server response header value, if any.
func serverHeader(response string) string {
	for _, line := range strings.Split(response, "\r\n") {
		if strings.HasPrefix(strings.ToLower(line), "server:") {
			return strings.TrimSpace(line[len("server:"):])
		}
	}
	return ""
}

// DefaultName returns the default-port service name, or Unknown.
func DefaultName(port int) string {
	if name, ok := defaultPorts[port]; ok {
		return name
	}
	return "Unknown"
}
