package cloud_scanner

// DefaultEndpoint is the S3 API endpoint probed when none is configured.
const DefaultEndpoint = "s3.amazonaws.com"

// commonBucketSuffixes are appended to a base name when the caller asks
// for bucket-name guessing (e.g. target "acme" probes "acme-backup").
var commonBucketSuffixes = []string{
	"",
	"-backup",
	"-backups",
	"-logs",
	"-assets",
	"-public",
	"-static",
	"-dev",
}

// awsAdvisory mirrors the container scanner's benchmark checklist:
// info-only findings flagging controls that need manual review.
type awsAdvisory struct {
	Control string
	Text    string
}

var awsAdvisories = []awsAdvisory{
	{"CIS AWS 1.4", "Ensure no root account access key exists."},
	{"CIS AWS 2.1.1", "Ensure S3 buckets deny public read access unless explicitly required."},
	{"CIS AWS 2.1.5", "Ensure S3 buckets block public access at the account level."},
	{"CIS AWS 4.1", "Ensure no security group allows 0.0.0.0/0 ingress to port 22."},
}
