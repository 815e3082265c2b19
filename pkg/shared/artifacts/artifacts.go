// Package artifacts uploads generated report files to long-term storage.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/pkg/shared/config"
)

// Uploader pushes local report files into an S3 bucket.
type Uploader struct {
	bucket   string
	uploader *s3manager.Uploader
	logger   hclog.Logger
}

// NewUploader creates an Uploader for the configured bucket and region.
// Credentials come from the default AWS chain.
func NewUploader(cfg *config.Config, logger hclog.Logger) *Uploader {
	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(cfg.Artifacts.S3Region),
	}))

	return &Uploader{
		bucket:   cfg.Artifacts.S3Bucket,
		uploader: s3manager.NewUploader(sess),
		logger:   logger,
	}
}

// runKey builds a unique S3 prefix for one batch of reports.
// Example: actionsguard/2025-09-15/5f8d7e…/report.json.
func runKey(runID uuid.UUID, t time.Time, filename string) string {
	return filepath.Join("actionsguard", t.UTC().Format("2006-01-02"), runID.String(), filename)
}

// UploadReports uploads every file in paths under a fresh run prefix and
// returns the S3 keys written.
func (u *Uploader) UploadReports(paths []string) ([]string, error) {
	runID := uuid.New()
	now := time.Now()

	var keys []string
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return keys, fmt.Errorf("failed to open report %q: %w", path, err)
		}

		key := runKey(runID, now, filepath.Base(path))
		result, err := u.uploader.Upload(&s3manager.UploadInput{
			Bucket: aws.String(u.bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		f.Close()
		if err != nil {
			return keys, fmt.Errorf("failed to upload report %q: %w", path, err)
		}

		u.logger.Info("report uploaded", "bucket", u.bucket, "key", key, "location", result.Location)
		keys = append(keys, key)
	}

	return keys, nil
}
