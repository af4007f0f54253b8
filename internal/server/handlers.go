package server

import (
	"fmt"
	"net/http"

	"github.com/pgscope/pgscope/internal/database"
	"github.com/pgscope/pgscope/internal/errs"
	"github.com/pgscope/pgscope/internal/logger"
)

type connectRequest struct {
	DBName   string `json:"dbName"`
	Host     string `json:"host,omitempty"`
	Port     uint16 `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
}

type databaseRequest struct {
	DBName string `json:"dbName"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	info, err := s.conns.Connect(r.Context(), database.Target{
		Host:     req.Host,
		Port:     req.Port,
		User:     req.User,
		Password: req.Password,
		Database: req.DBName,
	})
	if err != nil {
		logger.FromContext(r.Context()).Error("connect failed", err, "database", req.DBName)
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK,
		fmt.Sprintf("connected to database %q", info.Database), info)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	s.conns.Disconnect()
	respondMessage(w, http.StatusOK, "disconnected")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	info := s.conns.Info()
	respondData(w, http.StatusOK, "", map[string]any{
		"connected":  info != nil,
		"connection": info,
	})
}

func (s *Server) handleListDatabases(w http.ResponseWriter, r *http.Request) {
	names, err := s.intro.ListDatabases(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", map[string]any{"databases": names})
}

func (s *Server) handleCreateDatabase(w http.ResponseWriter, r *http.Request) {
	var req databaseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.DBName == "" {
		respondError(w, errs.New(errs.ErrKindValidation, "dbName is required"))
		return
	}

	if err := s.conns.CreateDatabase(r.Context(), req.DBName); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated,
		fmt.Sprintf("database %q created", req.DBName))
}

func (s *Server) handleDropDatabase(w http.ResponseWriter, r *http.Request) {
	var req databaseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.DBName == "" {
		respondError(w, errs.New(errs.ErrKindValidation, "dbName is required"))
		return
	}

	if err := s.conns.DropDatabase(r.Context(), req.DBName); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK,
		fmt.Sprintf("database %q dropped", req.DBName))
}
