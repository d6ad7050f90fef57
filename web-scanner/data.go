package web_scanner

import "go-sentinel/models"

// requiredHeader describes a security header the target should send.
type requiredHeader struct {
	Name     string
	Severity models.Severity
	Why      string
}

var requiredHeaders = []requiredHeader{
	{"Content-Security-Policy", models.SeverityHigh, "mitigates XSS and injection of third-party content"},
	{"Strict-Transport-Security", models.SeverityMedium, "enforces HTTPS on returning visitors"},
	{"X-Frame-Options", models.SeverityMedium, "prevents clickjacking via framing"},
	{"X-Content-Type-Options", models.SeverityMedium, "prevents MIME type sniffing"},
	{"X-XSS-Protection", models.SeverityMedium, "enables legacy browser XSS filters"},
}

// payloadFamily groups probe payloads with the response signatures that
// confirm them. Probing stops after the first confirmed hit per family.
type payloadFamily struct {
	Name       string
	Title      string
	Payloads   []string
	Signatures []string
	Reference  string
}

var payloadFamilies = []payloadFamily{
	{
		Name:  "traversal",
		Title: "Directory traversal",
		Payloads: []string{
			"../../../../etc/passwd",
			"..%2f..%2f..%2f..%2fetc%2fpasswd",
			"....//....//....//etc/passwd",
		},
		Signatures: []string{"root:x:", "root:*:", "[boot loader]"},
		Reference:  "CWE-22",
	},
	{
		Name:  "sqli",
		Title: "SQL injection",
		Payloads: []string{
			"' OR '1'='1' -- ",
			"' UNION SELECT null, version() --",
			"1' AND 1=2 UNION SELECT 1 --",
		},
		Signatures: []string{
			"SQL syntax",
			"mysql_fetch",
			"ORA-00936",
			"PostgreSQL ERROR",
			"sqlite3.OperationalError",
			"Unclosed quotation mark",
		},
		Reference: "CWE-89",
	},
}
