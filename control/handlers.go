package control

import (
	"net/http"
	"time"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/engine"
)

// StateResponse describes the engine as seen by the API
type StateResponse struct {
	ID      string  `json:"id"`
	Effect  string  `json:"effect"`
	Opacity float64 `json:"opacity"`
	State   string  `json:"state"`
	Path    string  `json:"path"`
	Queued  int     `json:"queued"`
}

// HealthResponse is the liveness body
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// EffectRequest starts an effect; nil fields keep engine defaults
type EffectRequest struct {
	Effect               string   `json:"effect"`
	Opacity              *float64 `json:"opacity,omitempty"`
	RespectReducedMotion *bool    `json:"respect_reduced_motion,omitempty"`
	SnowAccumulation     bool     `json:"snow_accumulation,omitempty"`
	MatrixRainColor      string   `json:"matrix_rain_color,omitempty"`
}

// OpacityRequest sets the running effect's opacity percent
type OpacityRequest struct {
	Value *float64 `json:"value"`
}

// SurfacesRequest replaces the snow accumulation surfaces
type SurfacesRequest struct {
	Surfaces []effect.SnowSurface `json:"surfaces"`
}

func (s *Server) state() StateResponse {
	return StateResponse{
		ID:      s.ctl.ID(),
		Effect:  string(s.ctl.ActiveEffect()),
		Opacity: s.ctl.Opacity(),
		State:   s.ctl.State().String(),
		Path:    s.ctl.Path().String(),
		Queued:  s.ctl.Queued(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleEffects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, effect.Tags())
}

func (s *Server) handleEffect(w http.ResponseWriter, r *http.Request) {
	var req EffectRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	tag, err := effect.Parse(req.Effect)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	respect := s.respectMotion
	if req.RespectReducedMotion != nil {
		respect = *req.RespectReducedMotion
	}
	opts := []engine.StartOption{
		engine.WithReducedMotion(respect),
		engine.WithSnowAccumulation(req.SnowAccumulation),
		engine.WithMatrixRainColor(req.MatrixRainColor),
	}
	if req.Opacity != nil {
		opts = append(opts, engine.WithOpacity(*req.Opacity))
	}

	s.ctl.Start(tag, opts...)
	s.logger.Info("effect requested", "effect", tag)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleOpacity(w http.ResponseWriter, r *http.Request) {
	var req OpacityRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}
	s.ctl.SetOpacity(*req.Value)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.ctl.Stop()
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleSurfaces(w http.ResponseWriter, r *http.Request) {
	var req SurfacesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	for _, sf := range req.Surfaces {
		if sf.Width < 0 || sf.Thickness < 0 {
			writeError(w, http.StatusBadRequest, "surface "+sf.ID+": negative dimensions")
			return
		}
	}
	s.ctl.UpdateSnowSurfaces(req.Surfaces)
	w.WriteHeader(http.StatusNoContent)
}
