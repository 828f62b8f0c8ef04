package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	RowsAccepted int
	RowsRejected int
}

// Uploader walks an export directory, reads .csv files, and POSTs them to
// the HealthSync server. The state DB records files already uploaded so
// repeated runs only send new or changed exports.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, exportDir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    exportDir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pipeline.
func (u *Uploader) Run() (*Stats, error) {
	files, err := ScanCSVFiles(u.dir)
	if err != nil {
		return &u.stats, fmt.Errorf("scanning %s: %w", u.dir, err)
	}

	for _, relPath := range files {
		u.stats.FilesTotal++

		path := filepath.Join(u.dir, relPath)
		info, err := os.Stat(path)
		if err != nil {
			u.log.Warn("stat failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			continue
		}

		hash, err := HashFile(path)
		if err != nil {
			u.log.Warn("hash failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			continue
		}

		uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
		if err != nil {
			u.log.Warn("state check failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if uploaded {
			u.stats.FilesSkipped++
			continue
		}

		body, err := os.ReadFile(path)
		if err != nil {
			u.log.Warn("read failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			continue
		}

		if u.dryRun {
			u.log.Info("dry-run: would send", "file", relPath, "bytes", len(body))
			continue
		}

		result, err := u.client.SendCSV(body)
		if err != nil {
			u.log.Warn("upload failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			continue
		}

		u.stats.RowsAccepted += result.ProcessedCount
		u.stats.RowsRejected += result.FailedCount
		for _, e := range result.Errors {
			u.log.Warn("row rejected", "file", relPath, "row", e.Index, "reason", e.Message)
		}

		if err := u.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
			u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
		}
		u.stats.FilesUploaded++

		u.log.Info("uploaded file",
			"file", relPath,
			"accepted", result.ProcessedCount,
			"rejected", result.FailedCount,
		)
	}

	return &u.stats, nil
}
