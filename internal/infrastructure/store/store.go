// Package store implements the flat-file JSON datastore. The entire dataset
// lives in one document on disk; every mutation rewrites the file in full.
package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/logger"
)

//go:embed document.schema.json
var documentSchema string

// Store owns the on-disk JSON document. A single mutex serializes every
// load-mutate-save sequence so concurrent requests cannot overwrite each
// other's writes.
type Store struct {
	path   string
	mu     sync.Mutex
	schema *jsonschema.Schema
	logger *logger.Logger
}

// New creates a store for the configured file path, compiling the document
// schema and creating the file with an empty document if it does not exist.
func New(cfg config.StoreConfig, log *logger.Logger) (*Store, error) {
	schema, err := jsonschema.CompileString("document.schema.json", documentSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile document schema: %w", err)
	}

	s := &Store{
		path:   cfg.Path,
		schema: schema,
		logger: log.WithComponent("store"),
	}

	if err := s.ensureFile(); err != nil {
		// Creation can fail on read-only filesystems; reads fall back to an
		// empty document and writes will report ErrStorageUnavailable.
		s.logger.Warnw("Failed to create datastore file", "path", s.path, "error", err)
	}

	return s, nil
}

// Path returns the datastore file location.
func (s *Store) Path() string {
	return s.path
}

// View runs fn against a snapshot of the document. Nothing is persisted.
func (s *Store) View(fn func(doc *entities.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.load())
}

// Update runs fn against the document and persists the result when fn
// returns nil. The whole sequence holds the store lock, so updates are
// applied one writer at a time.
func (s *Store) Update(fn func(doc *entities.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if err := fn(doc); err != nil {
		return err
	}

	return s.save(doc)
}

// Load returns the current document snapshot. Used by readiness checks and
// CLI commands; request paths go through View/Update.
func (s *Store) Load() *entities.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *Store) ensureFile() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	data, err := json.MarshalIndent(entities.NewDocument(), "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return err
	}

	s.logger.Infow("Created datastore file", "path", s.path)
	return nil
}

// load reads the document, recovering to an empty one on any failure:
// missing file, unreadable file, invalid JSON, or a document that does not
// match the expected shape. Recovery is logged, never surfaced.
func (s *Store) load() *entities.Document {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			_ = s.ensureFile()
		} else {
			s.logger.Errorw("Failed to read datastore file", "path", s.path, "error", err)
		}
		return entities.NewDocument()
	}

	var probe interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		s.logger.Errorw("Datastore file is not valid JSON, using empty document", "path", s.path, "error", err)
		return entities.NewDocument()
	}

	if err := s.schema.Validate(probe); err != nil {
		s.logger.Errorw("Datastore document has unexpected shape, using empty document", "path", s.path, "error", err)
		return entities.NewDocument()
	}

	var doc entities.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Errorw("Failed to decode datastore document, using empty document", "path", s.path, "error", err)
		return entities.NewDocument()
	}

	doc.Normalize()
	return &doc
}

// save serializes and overwrites the file in full. A failed write surfaces
// as entities.ErrStorageUnavailable so callers can tell confirmed-persisted
// from dropped.
func (s *Store) save(doc *entities.Document) error {
	doc.Normalize()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStorageUnavailable, err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Errorw("Failed to write datastore file", "path", s.path, "error", err)
		return fmt.Errorf("%w: %v", entities.ErrStorageUnavailable, err)
	}

	return nil
}
