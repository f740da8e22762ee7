// Package dataset turns uploads into in-memory datasets.
//
// Parsing is bounded two ways: each upload is capped at MaxBytes, and at most
// MaxConcurrent uploads are parsed at once across all sessions.
package dataset

import (
	"bytes"
	"context"
	"io"
	"time"

	domainDataset "chicuadrado/domain/dataset"
	"chicuadrado/internal"
	"chicuadrado/internal/errors"
	"chicuadrado/ports"

	"golang.org/x/sync/semaphore"
)

// LoaderConfig bounds upload parsing
type LoaderConfig struct {
	MaxBytes      int64
	MaxConcurrent int64
}

// DefaultLoaderConfig returns a 50MB cap and four parse slots
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{MaxBytes: 50 * 1024 * 1024, MaxConcurrent: 4}
}

// Loader reads uploads through a DatasetReader
type Loader struct {
	reader ports.DatasetReader
	config LoaderConfig
	slots  *semaphore.Weighted
	logger *internal.Logger
}

// NewLoader creates a loader around reader
func NewLoader(reader ports.DatasetReader, config LoaderConfig, logger *internal.Logger) *Loader {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{
		reader: reader,
		config: config,
		slots:  semaphore.NewWeighted(config.MaxConcurrent),
		logger: logger,
	}
}

// Load reads src fully (up to the size cap) and parses it as filename.
// It blocks while all parse slots are taken, until ctx is done.
func (l *Loader) Load(ctx context.Context, filename string, src io.Reader) (*domainDataset.Dataset, error) {
	if err := l.slots.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "upload cancelled while waiting for a parse slot")
	}
	defer l.slots.Release(1)

	start := time.Now()
	data, err := io.ReadAll(io.LimitReader(src, l.config.MaxBytes+1))
	if err != nil {
		return nil, errors.FileParseError("No se pudo leer el archivo cargado.", err)
	}
	if int64(len(data)) > l.config.MaxBytes {
		l.logger.Warn("[Loader] Rejected %s: larger than %d bytes", filename, l.config.MaxBytes)
		return nil, errors.FileTooLarge(int(l.config.MaxBytes / (1024 * 1024)))
	}
	if len(data) == 0 {
		return nil, errors.FileParseError("El archivo está vacío: no hay columnas para leer.", nil)
	}

	ds, err := l.reader.Read(filename, bytes.NewReader(data))
	if err != nil {
		l.logger.Warn("[Loader] Failed to parse %s: %v", filename, err)
		return nil, err
	}

	l.logger.Info("[Loader] Loaded %s (%d bytes) in %s", filename, len(data), time.Since(start).Round(time.Millisecond))
	return ds, nil
}
