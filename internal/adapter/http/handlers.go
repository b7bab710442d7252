package http

import (
	"errors"
	"net/http"

	"github.com/scopesignals/coverage/internal/coverage"
	"github.com/scopesignals/coverage/internal/domain"
	"github.com/scopesignals/coverage/internal/view"
)

func (s *Server) handleModules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"modules": s.catalog.Summaries()})
}

// handleCoverage renders a module with no session: every entity neutral,
// default viewport.
func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	module, err := domain.ParseModule(r.PathValue("module"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	cov, err := s.catalog.Coverage(module)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view.Render(coverage.Snapshot{Coverage: cov}, s.settings))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := s.decodeBody(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	module := s.defaultModule
	if req.Module != "" {
		module, _ = domain.ParseModule(req.Module)
	}

	sess, err := s.sessions.Create(module)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.render(sess.Snapshot()))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.render(sess.Snapshot()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangeModule(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req moduleRequest
	if err := s.decodeBody(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	module, _ := domain.ParseModule(req.Module)

	snap, err := sess.ChangeModule(module)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.render(snap))
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req hoverRequest
	if err := s.decodeBody(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var snap coverage.Snapshot
	if req.Zip != "" {
		snap = sess.HoverZip(req.Zip)
	} else {
		snap = sess.HoverGroup(req.GroupID)
	}
	writeJSON(w, http.StatusOK, s.render(snap))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := s.decodeBody(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var snap coverage.Snapshot
	if req.Zip != "" {
		snap = sess.SelectZip(req.Zip)
	} else {
		snap = sess.SelectGroup(req.GroupID)
	}
	writeJSON(w, http.StatusOK, s.render(snap))
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.render(sess.ClearSelection()))
}

// session resolves the {id} path value, writing a 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*coverage.Session, bool) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if errors.Is(err, coverage.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		s.logger.Error("session lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return sess, true
}

func (s *Server) render(snap coverage.Snapshot) view.View {
	return view.Render(snap, s.settings)
}
