package service

// defaultPorts maps well-known ports to service names, used only when
// banner evidence is absent.
var defaultPorts = map[int]string{
	21:    "FTP",
	22:    "SSH",
	23:    "Telnet",
	25:    "SMTP",
	53:    "DNS",
	80:    "HTTP",
	110:   "POP3",
	111:   "RPCBind",
	135:   "MSRPC",
	139:   "NetBIOS",
	143:   "IMAP",
	389:   "LDAP",
	443:   "HTTPS",
	445:   "SMB",
	465:   "SMTPS",
	587:   "SMTP",
	993:   "IMAPS",
	995:   "POP3S",
	1433:  "MSSQL",
	1521:  "Oracle",
	1723:  "PPTP",
	1936:  "OpenShift Router",
	2049:  "NFS",
	2375:  "Docker",
	2376:  "Docker TLS",
	2379:  "etcd",
	2380:  "etcd Peer",
	3000:  "HTTP",
	3306:  "MySQL",
	3389:  "RDP",
	5432:  "PostgreSQL",
	5900:  "VNC",
	5985:  "WinRM",
	6379:  "Redis",
	6443:  "Kubernetes API",
	8000:  "HTTP",
	8080:  "HTTP Proxy",
	8443:  "HTTPS Alt",
	9200:  "Elasticsearch",
	10250: "Kubelet",
	10255: "Kubelet Read-Only",
	27017: "MongoDB",
}
