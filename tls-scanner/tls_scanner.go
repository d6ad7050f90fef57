package tls_scanner

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"go-sentinel/models"
	"go-sentinel/plugin"
)

// insecureVersions maps negotiated protocol versions considered broken.
var insecureVersions = map[uint16]string{
	tls.VersionSSL30: "SSLv3",
	tls.VersionTLS10: "TLSv1.0",
	tls.VersionTLS11: "TLSv1.1",
}

// sha1Algorithms covers the SHA-1 signature family.
var sha1Algorithms = map[x509.SignatureAlgorithm]bool{
	x509.SHA1WithRSA:   true,
	x509.DSAWithSHA1:   true,
	x509.ECDSAWithSHA1: true,
}

// Scanner assesses the negotiated TLS protocol and peer certificate of
// a target. Handshake failures become a single scan_error finding.
type Scanner struct {
	Timeout time.Duration
	Port    int

	// SHA1Severity is a configurable default (see ScanConfig overrides
	// for port risk; the protocol tables work the same way).
	SHA1Severity models.Severity
}

// Name returns the module id.
func (s *Scanner) Name() string {
	return plugin.TLSScanner
}

// Scan implements the module contract.
func (s *Scanner) Scan(ctx context.Context, target string, cfg *models.ScanConfig) []models.Finding {
	port := s.Port
	if port == 0 {
		port = 443
	}
	timeout := cfg.PortTimeout(s.Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	address := net.JoinHostPort(target, strconv.Itoa(port))
	logrus.Infof("starting TLS assessment on %s", address)

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", address, &tls.Config{
		InsecureSkipVerify: true, // the point is to inspect bad certs, not reject them
		MinVersion:         tls.VersionTLS10,
	})
	if err != nil {
		logrus.Debugf("TLS handshake with %s failed: %v", address, err)
		return []models.Finding{models.NewScanError(target, plugin.TLSScanner,
			fmt.Sprintf("TLS handshake failed: %v", err))}
	}
	defer conn.Close()

	state := conn.ConnectionState()
	now := time.Now()

	var findings []models.Finding
	if name, bad := insecureVersions[state.Version]; bad {
		findings = append(findings, models.Finding{
			Target:      target,
			Module:      plugin.TLSScanner,
			Type:        models.FindingVulnerability,
			Severity:    models.SeverityHigh,
			Title:       "Insecure TLS protocol version",
			Description: fmt.Sprintf("The server negotiated %s, which is deprecated and exploitable.", name),
			Details:     map[string]string{"protocol": name, "port": strconv.Itoa(port)},
			Remediation: "Disable protocol versions below TLS 1.2.",
			Timestamp:   now.UTC(),
		})
	}

	if len(state.PeerCertificates) > 0 {
		findings = append(findings, s.certFindings(target, port, state.PeerCertificates[0], now)...)
	}

	return findings
}

func (s *Scanner) certFindings(target string, port int, cert *x509.Certificate, now time.Time) []models.Finding {
	var findings []models.Finding

	if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
		findings = append(findings, models.Finding{
			Target:      target,
			Module:      plugin.TLSScanner,
			Type:        models.FindingSSLCertificate,
			Severity:    models.SeverityHigh,
			Title:       "Certificate validity window violated",
			Description: fmt.Sprintf("The certificate is valid from %s to %s, which does not contain the current time.", cert.NotBefore.Format(time.RFC3339), cert.NotAfter.Format(time.RFC3339)),
			Details: map[string]string{
				"subject":   cert.Subject.CommonName,
				"not_after": cert.NotAfter.Format(time.RFC3339),
				"port":      strconv.Itoa(port),
			},
			Remediation: "Renew the certificate.",
			Timestamp:   now.UTC(),
		})
	}

	if sha1Algorithms[cert.SignatureAlgorithm] {
		severity := s.SHA1Severity
		if !severity.Valid() {
			severity = models.SeverityMedium
		}
		findings = append(findings, models.Finding{
			Target:      target,
			Module:      plugin.TLSScanner,
			Type:        models.FindingSSLCertificate,
			Severity:    severity,
			Title:       "Certificate signed with SHA-1",
			Description: "The certificate signature uses the SHA-1 family, which is collision-prone.",
			Details:     map[string]string{"algorithm": cert.SignatureAlgorithm.String()},
			Remediation: "Reissue the certificate with a SHA-256 or stronger signature.",
			Timestamp:   now.UTC(),
		})
	}

	if cert.Subject.CommonName != "" && cert.Subject.CommonName == cert.Issuer.CommonName {
		findings = append(findings, models.Finding{
			Target:      target,
			Module:      plugin.TLSScanner,
			Type:        models.FindingSSLCertificate,
			Severity:    models.SeverityInfo,
			Title:       "Self-signed certificate",
			Description: "The certificate subject and issuer are identical.",
			Details:     map[string]string{"subject": cert.Subject.CommonName},
			Timestamp:   now.UTC(),
		})
	}

	return findings
}
