// Package server exposes the connection, schema, and snapshot operations
// over HTTP. Handlers stay thin: decode, call a service, map the error
// kind to a status, encode the envelope.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pgscope/pgscope/internal/database"
	"github.com/pgscope/pgscope/internal/logger"
	"github.com/pgscope/pgscope/internal/schema"
	"github.com/pgscope/pgscope/internal/snapshot"
)

// Connections is the slice of the connection manager the handlers use.
type Connections interface {
	Connect(ctx context.Context, target database.Target) (*database.ConnectionInfo, error)
	Disconnect()
	Info() *database.ConnectionInfo
	CreateDatabase(ctx context.Context, name string) error
	DropDatabase(ctx context.Context, name string) error
}

// Introspection covers the read-only catalog lookups.
type Introspection interface {
	ListDatabases(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context) ([]schema.Table, error)
	ListColumns(ctx context.Context, table string) ([]schema.Column, error)
	ListPrimaryKeys(ctx context.Context, table string) ([]string, error)
}

// Tables covers table creation on the active database.
type Tables interface {
	CreateTable(ctx context.Context, spec schema.CreateTableSpec) error
}

// Constraints covers foreign-key management.
type Constraints interface {
	CreateForeignKey(ctx context.Context, spec schema.ForeignKeySpec) (*schema.ForeignKey, error)
	ListForeignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error)
	ListAllForeignKeys(ctx context.Context) ([]schema.ForeignKey, error)
	DeleteForeignKey(ctx context.Context, table, constraint string) error
	ValidateReference(ctx context.Context, table, column string) (bool, string, error)
}

// Snapshots covers schema snapshot capture and export.
type Snapshots interface {
	Capture(ctx context.Context) (*snapshot.Snapshot, error)
	List() []snapshot.Metadata
	Get(id uuid.UUID) (*snapshot.Snapshot, error)
	Export(ctx context.Context, id uuid.UUID) (string, error)
}

// Server holds the handler dependencies.
type Server struct {
	conns  Connections
	intro  Introspection
	tables Tables
	fks    Constraints
	snaps  Snapshots
	log    *logger.Logger
}

// New creates a Server over the given services.
func New(conns Connections, intro Introspection, tables Tables, fks Constraints, snaps Snapshots, log *logger.Logger) *Server {
	return &Server{conns: conns, intro: intro, tables: tables, fks: fks, snaps: snaps, log: log}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/databases", s.handleListDatabases)
		r.Post("/databases", s.handleCreateDatabase)
		r.Delete("/databases", s.handleDropDatabase)

		r.Route("/database", func(r chi.Router) {
			r.Post("/connect", s.handleConnect)
			r.Post("/disconnect", s.handleDisconnect)
			r.Get("/status", s.handleStatus)
		})

		r.Get("/tables", s.handleListTables)
		r.Post("/tables", s.handleCreateTable)
		r.Get("/columns", s.handleListColumns)
		r.Get("/primary-keys", s.handleListPrimaryKeys)

		r.Route("/foreign-keys", func(r chi.Router) {
			r.Post("/", s.handleCreateForeignKey)
			r.Get("/", s.handleListForeignKeys)
			r.Delete("/", s.handleDeleteForeignKey)
			r.Get("/all", s.handleListAllForeignKeys)
			r.Post("/validate-reference", s.handleValidateReference)
		})

		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", s.handleCaptureSnapshot)
			r.Get("/", s.handleListSnapshots)
			r.Get("/{id}", s.handleGetSnapshot)
			r.Post("/{id}/export", s.handleExportSnapshot)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "service is running")
}
