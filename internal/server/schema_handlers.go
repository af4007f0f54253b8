package server

import (
	"fmt"
	"net/http"

	"github.com/pgscope/pgscope/internal/errs"
	"github.com/pgscope/pgscope/internal/logger"
	"github.com/pgscope/pgscope/internal/schema"
)

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.intro.ListTables(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", map[string]any{"tables": tables})
}

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var spec schema.CreateTableSpec
	if err := decodeBody(r, &spec); err != nil {
		respondError(w, err)
		return
	}

	if err := s.tables.CreateTable(r.Context(), spec); err != nil {
		logger.FromContext(r.Context()).Error("create table failed", err,
			"table", spec.TableName)
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated,
		fmt.Sprintf("table %q created", spec.TableName))
}

func (s *Server) handleListColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := s.intro.ListColumns(r.Context(), r.URL.Query().Get("tableName"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", map[string]any{"columns": cols})
}

func (s *Server) handleListPrimaryKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := s.intro.ListPrimaryKeys(r.Context(), r.URL.Query().Get("tableName"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", map[string]any{"primaryKeys": keys})
}

func (s *Server) handleCreateForeignKey(w http.ResponseWriter, r *http.Request) {
	var spec schema.ForeignKeySpec
	if err := decodeBody(r, &spec); err != nil {
		respondError(w, err)
		return
	}

	fk, err := s.fks.CreateForeignKey(r.Context(), spec)
	if err != nil {
		logger.FromContext(r.Context()).Error("create foreign key failed", err,
			"table", spec.SourceTable)
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated,
		fmt.Sprintf("foreign key %q created", fk.Name), fk)
}

func (s *Server) handleListForeignKeys(w http.ResponseWriter, r *http.Request) {
	fks, err := s.fks.ListForeignKeys(r.Context(), r.URL.Query().Get("tableName"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", map[string]any{"foreignKeys": fks})
}

func (s *Server) handleListAllForeignKeys(w http.ResponseWriter, r *http.Request) {
	fks, err := s.fks.ListAllForeignKeys(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", map[string]any{"foreignKeys": fks})
}

type deleteForeignKeyRequest struct {
	SourceTable    string `json:"sourceTable"`
	ConstraintName string `json:"constraintName"`
}

func (s *Server) handleDeleteForeignKey(w http.ResponseWriter, r *http.Request) {
	var req deleteForeignKeyRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.SourceTable == "" || req.ConstraintName == "" {
		respondError(w, errs.New(errs.ErrKindValidation,
			"sourceTable and constraintName are required"))
		return
	}

	if err := s.fks.DeleteForeignKey(r.Context(), req.SourceTable, req.ConstraintName); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK,
		fmt.Sprintf("constraint %q dropped", req.ConstraintName))
}

type validateReferenceRequest struct {
	ReferencedTable  string `json:"referencedTable"`
	ReferencedColumn string `json:"referencedColumn"`
}

func (s *Server) handleValidateReference(w http.ResponseWriter, r *http.Request) {
	var req validateReferenceRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.ReferencedTable == "" || req.ReferencedColumn == "" {
		respondError(w, errs.New(errs.ErrKindValidation,
			"referencedTable and referencedColumn are required"))
		return
	}

	valid, msg, err := s.fks.ValidateReference(r.Context(), req.ReferencedTable, req.ReferencedColumn)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, msg, map[string]any{"valid": valid})
}
