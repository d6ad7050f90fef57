package cloud_scanner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"go-sentinel/models"
	"go-sentinel/plugin"
)

// Scanner checks cloud storage exposure for a target: it probes
// S3-compatible buckets derived from the target name with anonymous
// credentials and reports confirmed public access.
type Scanner struct {
	Endpoint string
	Secure   bool
	Timeout  time.Duration
}

// Name returns the module id.
func (s *Scanner) Name() string {
	return plugin.CloudScanner
}

// Scan implements the module contract.
func (s *Scanner) Scan(ctx context.Context, target string, cfg *models.ScanConfig) []models.Finding {
	base := bucketBase(target)
	var names []string
	for _, suffix := range commonBucketSuffixes {
		names = append(names, base+suffix)
	}

	findings := s.ScanBuckets(ctx, target, names)
	findings = append(findings, advisoryFindings(target)...)
	return findings
}

// ScanBuckets probes the given bucket names anonymously. It is also the
// standalone cloud scanner entry point, usable without the orchestrator.
func (s *Scanner) ScanBuckets(ctx context.Context, target string, buckets []string) []models.Finding {
	client, err := s.client()
	if err != nil {
		return []models.Finding{models.NewScanError(target, plugin.CloudScanner,
			fmt.Sprintf("cloud client setup failed: %v", err))}
	}

	logrus.Infof("probing %d candidate buckets for %s", len(buckets), target)

	var findings []models.Finding
	for _, bucket := range buckets {
		select {
		case <-ctx.Done():
			return findings
		default:
		}

		probeCtx, cancel := context.WithTimeout(ctx, s.timeout())
		exists, err := client.BucketExists(probeCtx, bucket)
		if err != nil || !exists {
			cancel()
			logrus.Tracef("bucket %s not anonymously visible (%v)", bucket, err)
			continue
		}

		// Existing and visible without credentials is already an
		// exposure; a successful anonymous list upgrades it.
		objects := client.ListObjects(probeCtx, bucket, minio.ListObjectsOptions{MaxKeys: 1})
		listable := anonymousListSucceeded(objects)
		cancel()

		findings = append(findings, bucketFinding(target, bucket, listable))
	}
	return findings
}

// anonymousListSucceeded interprets the first list result. An
// error-free close with zero entries still proves the list call was
// authorized: empty buckets are listable too.
func anonymousListSucceeded(objects <-chan minio.ObjectInfo) bool {
	for obj := range objects {
		return obj.Err == nil
	}
	return true
}

func (s *Scanner) client() (*minio.Client, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("", "", ""),
		Secure: s.Secure || endpoint == DefaultEndpoint,
	})
}

func (s *Scanner) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return 10 * time.Second
}

func bucketFinding(target, bucket string, listable bool) models.Finding {
	severity := models.SeverityHigh
	title := fmt.Sprintf("Bucket %q visible to anonymous users", bucket)
	desc := "The bucket acknowledges anonymous requests, revealing its existence."
	if listable {
		severity = models.SeverityCritical
		title = fmt.Sprintf("Bucket %q listable by anonymous users", bucket)
		desc = "Anonymous users can enumerate the bucket contents."
	}
	return models.Finding{
		Target:      target,
		Module:      plugin.CloudScanner,
		Type:        models.FindingExposure,
		Severity:    severity,
		Title:       title,
		Description: desc,
		Details: map[string]string{
			"bucket":   bucket,
			"listable": fmt.Sprintf("%t", listable),
		},
		Remediation: "Enable public access blocks and restrict the bucket policy.",
		Timestamp:   time.Now().UTC(),
	}
}

func advisoryFindings(target string) []models.Finding {
	now := time.Now().UTC()
	out := make([]models.Finding, 0, len(awsAdvisories))
	for _, a := range awsAdvisories {
		out = append(out, models.Finding{
			Target:      target,
			Module:      plugin.CloudScanner,
			Type:        models.FindingInfo,
			Severity:    models.SeverityInfo,
			Title:       fmt.Sprintf("%s requires manual review", a.Control),
			Description: a.Text,
			Details:     map[string]string{"control": a.Control},
			Timestamp:   now,
		})
	}
	return out
}

// bucketBase derives a plausible bucket base name from the target.
func bucketBase(target string) string {
	base := target
	if i := strings.Index(base, "://"); i >= 0 {
		base = base[i+3:]
	}
	base = strings.TrimPrefix(base, "www.")
	if i := strings.IndexAny(base, "/:"); i >= 0 {
		base = base[:i]
	}
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.ToLower(base)
}
