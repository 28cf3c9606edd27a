package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"VocaRank/logger"

	"github.com/fsnotify/fsnotify"
)

// Watcher tails a spool directory the scraper drops batch files into. Every
// *.json file is ingested as one batch and renamed *.json.done, or
// *.json.failed when it cannot be ingested.
type Watcher struct {
	spoolDir string
	service  *Service
}

// NewWatcher creates a spool watcher over the given directory.
func NewWatcher(spoolDir string, service *Service) *Watcher {
	return &Watcher{spoolDir: spoolDir, service: service}
}

// Run watches the spool directory until the context is cancelled. Files
// already present at startup are processed first.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.spoolDir, 0755); err != nil {
		return fmt.Errorf("failed to create spool directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.spoolDir); err != nil {
		return fmt.Errorf("failed to watch spool directory: %w", err)
	}

	logger.Info("watching ingest spool", logger.String("dir", w.spoolDir))
	w.processExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			// Give the writer a moment to finish the file.
			time.Sleep(200 * time.Millisecond)
			w.processFile(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("spool watcher error", logger.ErrorField(err))
		}
	}
}

func (w *Watcher) processExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.spoolDir)
	if err != nil {
		logger.Error("failed to scan spool directory", logger.ErrorField(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		w.processFile(ctx, filepath.Join(w.spoolDir, entry.Name()))
	}
}

func (w *Watcher) processFile(ctx context.Context, path string) {
	body, err := os.ReadFile(path)
	if err != nil {
		// The file may have been picked up and renamed already.
		if !os.IsNotExist(err) {
			logger.Error("failed to read spool file", logger.String("file", path), logger.ErrorField(err))
		}
		return
	}

	var batch Batch
	if err := json.Unmarshal(body, &batch); err != nil {
		logger.Error("failed to parse spool file", logger.String("file", path), logger.ErrorField(err))
		w.markFile(path, ".failed")
		return
	}

	if err := w.service.IngestBatch(ctx, &batch); err != nil {
		logger.Error("failed to ingest spool file",
			logger.String("file", path), logger.String("batch", batch.ID), logger.ErrorField(err))
		w.markFile(path, ".failed")
		return
	}

	w.markFile(path, ".done")
}

func (w *Watcher) markFile(path, suffix string) {
	if err := os.Rename(path, path+suffix); err != nil {
		logger.Error("failed to rename spool file", logger.String("file", path), logger.ErrorField(err))
	}
}
