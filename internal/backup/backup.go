// File path: internal/backup/backup.go

// Package backup exports the fam_records table and ships the snapshots to
// S3.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/famnet/famapi/internal/common"
)

// Config controls where snapshots land.
type Config struct {
	Bucket string
	Region string
	Prefix string
}

// LoadConfig builds a Config from the environment. Credentials come from
// the standard AWS variables and are resolved by the SDK.
func LoadConfig() Config {
	cfg := Config{
		Bucket: strings.TrimSpace(os.Getenv("S3_BUCKET_NAME")),
		Region: strings.TrimSpace(os.Getenv("AWS_REGION")),
		Prefix: strings.TrimSpace(os.Getenv("S3_BACKUP_PREFIX")),
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Bucket == "" {
		c.Bucket = "fam-api-database"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.Prefix == "" {
		c.Prefix = "backups"
	}
}

// Exporter produces the snapshot bodies. *store.Store satisfies it.
type Exporter interface {
	ExportJSON(ctx context.Context, w io.Writer) error
	ExportCSV(ctx context.Context, w io.Writer) error
}

// Uploader ships one object. S3Uploader is the production implementation.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
}

// Run exports the table to JSON and CSV and uploads both snapshots. The
// timestamp keys the snapshot pair; keys of uploaded objects are returned.
func Run(ctx context.Context, exporter Exporter, uploader Uploader, prefix string, now time.Time) ([]string, error) {
	logger := common.Logger()
	stamp := now.UTC().Format("20060102_150405")

	var jsonBuf bytes.Buffer
	if err := exporter.ExportJSON(ctx, &jsonBuf); err != nil {
		return nil, fmt.Errorf("export json: %w", err)
	}
	var csvBuf bytes.Buffer
	if err := exporter.ExportCSV(ctx, &csvBuf); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}

	uploads := []struct {
		key         string
		contentType string
		body        *bytes.Buffer
	}{
		{path.Join(prefix, fmt.Sprintf("fam_records_%s.json", stamp)), "application/json", &jsonBuf},
		{path.Join(prefix, fmt.Sprintf("fam_records_%s.csv", stamp)), "text/csv", &csvBuf},
	}
	keys := make([]string, 0, len(uploads))
	for _, u := range uploads {
		if err := uploader.Upload(ctx, u.key, u.contentType, bytes.NewReader(u.body.Bytes())); err != nil {
			return keys, fmt.Errorf("upload %s: %w", u.key, err)
		}
		logger.Info("backup: snapshot uploaded", "key", u.key, "bytes", u.body.Len())
		keys = append(keys, u.key)
	}
	return keys, nil
}
