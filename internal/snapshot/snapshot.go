// Package snapshot captures point-in-time images of the active database's
// structure (tables, columns, foreign keys), keeps them versioned in
// memory, and exports them as JSON documents to an object store for
// auditing and offline comparison.
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pgscope/pgscope/internal/database"
	"github.com/pgscope/pgscope/internal/errs"
	"github.com/pgscope/pgscope/internal/logger"
	"github.com/pgscope/pgscope/internal/schema"
)

// TableSchema is one table with its columns.
type TableSchema struct {
	schema.Table
	Columns []schema.Column `json:"columns"`
}

// Snapshot is a point-in-time image of a database's structure.
type Snapshot struct {
	ID          uuid.UUID           `json:"id"`
	Database    string              `json:"database"`
	Version     uint64              `json:"version"`
	CapturedAt  time.Time           `json:"capturedAt"`
	Checksum    string              `json:"checksum"`
	Tables      []TableSchema       `json:"tables"`
	ForeignKeys []schema.ForeignKey `json:"foreignKeys"`
}

// Metadata is the lightweight listing form of a snapshot.
type Metadata struct {
	ID              uuid.UUID `json:"id"`
	Database        string    `json:"database"`
	Version         uint64    `json:"version"`
	CapturedAt      time.Time `json:"capturedAt"`
	Checksum        string    `json:"checksum"`
	TableCount      int       `json:"tableCount"`
	ForeignKeyCount int       `json:"fkCount"`
}

// Meta returns the snapshot's listing metadata.
func (s *Snapshot) Meta() Metadata {
	return Metadata{
		ID:              s.ID,
		Database:        s.Database,
		Version:         s.Version,
		CapturedAt:      s.CapturedAt,
		Checksum:        s.Checksum,
		TableCount:      len(s.Tables),
		ForeignKeyCount: len(s.ForeignKeys),
	}
}

// checksum hashes the structural content only, so two captures of an
// unchanged schema produce the same value regardless of capture time.
func checksum(tables []TableSchema, fks []schema.ForeignKey) string {
	payload, _ := json.Marshal(struct {
		Tables      []TableSchema       `json:"tables"`
		ForeignKeys []schema.ForeignKey `json:"foreignKeys"`
	}{tables, fks})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// ConnectionSource reports the active connection, used to stamp snapshots
// with the database they were taken from.
type ConnectionSource interface {
	Info() *database.ConnectionInfo
}

// Exporter persists a serialized snapshot under a key. The MinIO-backed
// ObjectStore implements it.
type Exporter interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Service captures, stores, and exports snapshots.
type Service struct {
	conns    ConnectionSource
	intro    *schema.Introspector
	fks      *schema.ConstraintManager
	store    *Store
	exporter Exporter // nil when no object store is configured
	log      *logger.Logger
}

// NewService wires a snapshot Service. exporter may be nil; Export then
// fails with a configuration error.
func NewService(conns ConnectionSource, intro *schema.Introspector, fks *schema.ConstraintManager, exporter Exporter, log *logger.Logger) *Service {
	return &Service{
		conns:    conns,
		intro:    intro,
		fks:      fks,
		store:    NewStore(),
		exporter: exporter,
		log:      log,
	}
}

// Capture introspects the active database and stores a new versioned
// snapshot of it.
func (s *Service) Capture(ctx context.Context) (*Snapshot, error) {
	info := s.conns.Info()
	if info == nil {
		return nil, errs.New(errs.ErrKindNotConnected,
			"no active database connection; connect first")
	}

	tables, err := s.intro.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	schemas := make([]TableSchema, 0, len(tables))
	for _, t := range tables {
		// Tables span every visible schema; the column lookup must carry
		// each table's own schema or non-public tables come back empty.
		cols, err := s.intro.ListColumnsIn(ctx, t.Schema, t.Name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, TableSchema{Table: t, Columns: cols})
	}

	fks, err := s.fks.ListAllForeignKeys(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:          uuid.New(),
		Database:    info.Database,
		CapturedAt:  time.Now().UTC(),
		Checksum:    checksum(schemas, fks),
		Tables:      schemas,
		ForeignKeys: fks,
	}
	s.store.Save(snap)

	s.log.Info("schema snapshot captured",
		"database", snap.Database, "snapshot", snap.ID.String())
	return snap, nil
}

// List returns metadata for all snapshots of the active database, newest
// version first. With no active connection it lists every stored snapshot.
func (s *Service) List() []Metadata {
	if info := s.conns.Info(); info != nil {
		return s.store.List(info.Database)
	}
	return s.store.ListAll()
}

// Get returns a stored snapshot by ID.
func (s *Service) Get(id uuid.UUID) (*Snapshot, error) {
	snap, ok := s.store.Get(id)
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "snapshot %s not found", id)
	}
	return snap, nil
}

// Export serializes a stored snapshot and uploads it to the object store,
// returning the object key.
func (s *Service) Export(ctx context.Context, id uuid.UUID) (string, error) {
	if s.exporter == nil {
		return "", errs.New(errs.ErrKindValidation, "snapshot export is not configured")
	}
	snap, err := s.Get(id)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", errs.Wrap(errs.ErrKindUnknown, "encode snapshot", err)
	}

	key := fmt.Sprintf("snapshots/%s/v%03d-%s.json", snap.Database, snap.Version, snap.ID)
	if err := s.exporter.Put(ctx, key, data); err != nil {
		return "", err
	}

	s.log.Info("schema snapshot exported", "key", key)
	return key, nil
}
