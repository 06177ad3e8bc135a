package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/scenegen/pkg/buildinfo"
	"github.com/matzehuels/scenegen/pkg/cache"
	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/observability"
	"github.com/matzehuels/scenegen/pkg/placement"
	"github.com/matzehuels/scenegen/pkg/pipeline"
	"github.com/matzehuels/scenegen/pkg/render/preview"
)

// Preview formats.
const (
	formatFootprint = "footprint"
	formatGraph     = "graph"
	formatDOT       = "dot"
)

type placementRequest struct {
	Seed      uint64            `json:"seed,omitempty"`
	Test      int               `json:"test,omitempty"`
	Refresh   bool              `json:"refresh,omitempty"`
	Placement placement.Options `json:"placement"`
}

type placementResponse struct {
	*placement.Set
	CacheHit bool `json:"cache_hit"`
}

type verifyResponse struct {
	Valid   bool `json:"valid"`
	Items   int  `json:"items"`
	Boxes   int  `json:"boxes"`
	Spheres int  `json:"spheres"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// stats reports the counters installed with the server, or 404 when the
// server runs without them.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	if s.Stats == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "stats are not enabled"))
		return
	}
	snap := s.Stats.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		observability.Stats
		HitRate float64 `json:"cache_hit_rate"`
	}{snap, snap.HitRate()})
}

func (s *Server) createPlacement(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, err)
		return
	}
	s.place(w, r, req)
}

func (s *Server) getPlacement(w http.ResponseWriter, r *http.Request) {
	seed, err := strconv.ParseUint(chi.URLParam(r, "seed"), 10, 64)
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "seed %q is not an unsigned integer", chi.URLParam(r, "seed")))
		return
	}
	req := placementRequest{Seed: seed, Placement: s.defaults.Placement}
	if v := r.URL.Query().Get("test"); v != "" {
		test, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "test %q is not an integer", v))
			return
		}
		req.Test = test
	}
	s.place(w, r, req)
}

// place generates the set for req, bounding its attempts by the server cap.
func (s *Server) place(w http.ResponseWriter, r *http.Request, req placementRequest) {
	if req.Test < 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "test must be >= 0, got %d", req.Test))
		return
	}
	limit := s.defaults.Placement.MaxAttempts
	if req.Placement.MaxAttempts <= 0 || req.Placement.MaxAttempts > limit {
		req.Placement.MaxAttempts = limit
	}

	opts := pipeline.Options{
		Seed:      s.defaults.Seed,
		Refresh:   req.Refresh,
		Placement: req.Placement,
		Logger:    s.defaults.Logger,
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}

	set, hit, err := s.runner.GeneratePlacementWithCacheInfo(r.Context(), opts, req.Test)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeJSON(w, http.StatusOK, placementResponse{Set: set, CacheHit: hit})
}

func (s *Server) verifyPlacement(w http.ResponseWriter, r *http.Request) {
	var set placement.Set
	if err := decodeJSON(w, r, &set, false); err != nil {
		writeError(w, err)
		return
	}
	if err := placement.Verify(&set); err != nil {
		writeError(w, err)
		return
	}
	boxes, spheres := set.Counts()
	writeJSON(w, http.StatusOK, verifyResponse{Valid: true, Items: set.Len(), Boxes: boxes, Spheres: spheres})
}

// createPreview renders the posted set. Query parameters: format
// (footprint, graph or dot), upto and sampled.
func (s *Server) createPreview(w http.ResponseWriter, r *http.Request) {
	var set placement.Set
	if err := decodeJSON(w, r, &set, false); err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = formatFootprint
	}
	opts := preview.FootprintOptions{Palette: pipeline.Palette(&set)}
	if v := q.Get("upto"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "upto %q is not a non-negative integer", v))
			return
		}
		opts.Upto = n
	}
	if v := q.Get("sampled"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "sampled %q is not a boolean", v))
			return
		}
		opts.ShowSampled = b
	}

	var contentType string
	switch format {
	case formatFootprint, formatGraph:
		contentType = "image/svg+xml"
	case formatDOT:
		contentType = "text/vnd.graphviz"
	default:
		writeError(w, errors.New(errors.ErrCodeUnsupported, "preview format %q", format))
		return
	}

	canonical, err := json.Marshal(&set)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode set"))
		return
	}
	c, keyer := s.cacheAndKeyer()
	key := keyer.PreviewKey(cache.Hash(canonical), fmt.Sprintf("%s:upto=%d:sampled=%t", format, opts.Upto, opts.ShowSampled))

	ctx := r.Context()
	hooks := observability.Cache()
	body, hit, err := c.Get(ctx, key)
	if err != nil {
		s.logger.Warn("preview cache read failed", "err", err)
	}
	if hit {
		hooks.OnCacheHit(ctx, "preview")
	} else {
		hooks.OnCacheMiss(ctx, "preview")
		switch format {
		case formatFootprint:
			body = preview.Footprint(&set, opts)
		case formatDOT:
			body = []byte(preview.ToDOT(&set))
		case formatGraph:
			body, err = preview.RenderSVG(ctx, preview.ToDOT(&set))
			if err != nil {
				writeError(w, errors.Wrap(errors.ErrCodeRenderFailed, err, "render constraint graph"))
				return
			}
		}
		if err := c.Set(ctx, key, body, cache.TTLPreview); err != nil {
			s.logger.Warn("preview cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "preview", len(body))
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
