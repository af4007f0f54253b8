package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pgscope/pgscope/internal/errs"
)

func (s *Server) handleCaptureSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snaps.Capture(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated,
		fmt.Sprintf("snapshot v%d of %q captured", snap.Version, snap.Database),
		snap.Meta())
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, "", map[string]any{"snapshots": s.snaps.List()})
}

func snapshotID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.Wrap(errs.ErrKindValidation, "invalid snapshot id", err)
	}
	return id, nil
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := snapshotID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	snap, err := s.snaps.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", snap)
}

func (s *Server) handleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := snapshotID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	key, err := s.snaps.Export(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "snapshot exported", map[string]any{"key": key})
}
