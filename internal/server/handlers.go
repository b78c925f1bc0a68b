package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ckski/Evolution-Tutorials/pkg/buildinfo"
	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/history"
	"github.com/ckski/Evolution-Tutorials/pkg/pipeline"
)

// healthResponse is the GET /healthz document.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// targetsResponse is the GET /api/v1/targets document.
type targetsResponse struct {
	Targets []targetInfo `json:"targets"`
}

type targetInfo struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// fitResponse is the POST /api/v1/fit document: the run record plus the
// rendered artifacts. Artifact bytes arrive base64-encoded.
type fitResponse struct {
	*history.Record
	Exhausted bool              `json:"exhausted,omitempty"`
	Cached    bool              `json:"cached,omitempty"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

// runsResponse is the GET /api/v1/runs document.
type runsResponse struct {
	Runs  []*history.Record `json:"runs"`
	Count int               `json:"count"`
}

// clearResponse is the DELETE /api/v1/runs document.
type clearResponse struct {
	Deleted int `json:"deleted"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	names := pipeline.Builtins()
	infos := make([]targetInfo, 0, len(names))
	for _, name := range names {
		p, _ := pipeline.BuiltinPolygon(name)
		infos = append(infos, targetInfo{Name: name, Points: len(p)})
	}
	writeJSON(w, http.StatusOK, targetsResponse{Targets: infos})
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, s.log, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	// The API accepts plain target names only; file targets are a CLI
	// concern and never cross the HTTP boundary.
	if err := errors.ValidateTargetName(opts.Target); err != nil {
		writeError(w, s.log, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, s.log, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	exhausted := errors.Is(err, errors.ErrCodeSearchExhausted)
	if err != nil && !exhausted {
		writeError(w, s.log, err)
		return
	}

	rec := res.Record(opts)
	if s.store != nil {
		if err := s.store.Save(r.Context(), rec); err != nil {
			s.log.Error("save run record", "id", rec.ID, "err", err)
		}
	}

	writeJSON(w, http.StatusOK, fitResponse{
		Record:    rec,
		Exhausted: exhausted,
		Cached:    res.CacheInfo.ResultHit,
		Artifacts: res.Artifacts,
	})
}

func (s *Server) handleRunsList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.listRecords(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, s.log, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", q))
			return
		}
		if n < len(recs) {
			recs = recs[:n]
		}
	}
	writeJSON(w, http.StatusOK, runsResponse{Runs: recs, Count: len(recs)})
}

func (s *Server) listRecords(r *http.Request) ([]*history.Record, error) {
	if s.store == nil {
		return []*history.Record{}, nil
	}
	recs, err := s.store.List(r.Context())
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []*history.Record{}
	}
	return recs, nil
}

func (s *Server) handleRunsGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateRunID(id); err != nil {
		writeError(w, s.log, err)
		return
	}
	if s.store == nil {
		writeError(w, s.log, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id))
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRunsDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateRunID(id); err != nil {
		writeError(w, s.log, err)
		return
	}
	if s.store != nil {
		if err := s.store.Delete(r.Context(), id); err != nil {
			writeError(w, s.log, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunsClear(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, clearResponse{Deleted: 0})
		return
	}
	n, err := s.store.Prune(r.Context(), 0)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Deleted: n})
}
