package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/wbrown/img2braille"
	"github.com/wbrown/img2braille/imageutil"
)

// convertRequest is the JSON body of POST /v1/convert. Pixels is base64
// in the JSON encoding.
type convertRequest struct {
	Pixels   []byte              `json:"pixels"`
	Width    int                 `json:"width"`
	Channels int                 `json:"channels"`
	Options  img2braille.Options `json:"options"`
}

type convertResponse struct {
	Text    string `json:"text"`
	Length  int    `json:"length"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Dots    int    `json:"dots"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func newConvertResponse(res img2braille.Result) convertResponse {
	return convertResponse{
		Text:    res.Text,
		Length:  res.Length,
		Rows:    res.Rows,
		Columns: res.Columns,
		Dots:    res.Dots,
	}
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	// Omitted options fall back to the configured defaults.
	req := convertRequest{Options: s.cfg.Conversion.Options.Clone()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", fmt.Errorf("decode request: %w", err))
		return
	}

	res, err := s.converter.Convert(img2braille.Request{
		Pixels:   req.Pixels,
		Width:    req.Width,
		Channels: req.Channels,
		Options:  req.Options,
	})
	if err != nil {
		s.writeConversionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newConvertResponse(res))
}

func (s *Server) handleConvertImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", fmt.Errorf("parse form: %w", err))
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", fmt.Errorf("missing image field: %w", err))
		return
	}
	defer file.Close()

	query := r.URL.Query()
	columns, opts, err := s.optionsFromQuery(query)
	if err != nil {
		s.writeConversionError(w, r, err)
		return
	}
	// Reject bad options before decoding a potentially large upload.
	if err := opts.Validate(); err != nil {
		s.writeConversionError(w, r, err)
		return
	}

	img, format, err := imageutil.DecodeImage(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", err)
		return
	}
	hlog.FromRequest(r).Debug().
		Str("format", format).
		Int("src_width", img.Bounds().Dx()).
		Int("src_height", img.Bounds().Dy()).
		Int("columns", columns).
		Msg("decoded upload")

	prepared := imageutil.PrepareForBraille(img, columns, imageutil.InterpolationArea)
	res, err := s.converter.ConvertImage(prepared, opts)
	if err != nil {
		s.writeConversionError(w, r, err)
		return
	}

	if query.Get("format") == "png" {
		preview, err := img2braille.RenderPreview(res.Text, img2braille.PreviewOptions{
			CellWidth:  s.cfg.Preview.CellWidth,
			CellHeight: s.cfg.Preview.CellHeight,
			Font:       s.font,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal", err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, preview); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("failed to encode preview")
		}
		return
	}

	writeJSON(w, http.StatusOK, newConvertResponse(res))
}

// optionsFromQuery overlays query parameters on the configured defaults.
// Edge detection is enabled only when sigma, low and high are all given.
func (s *Server) optionsFromQuery(q url.Values) (int, img2braille.Options, error) {
	columns := s.cfg.Conversion.Columns
	opts := s.cfg.Conversion.Options.Clone()
	p := queryParser{q: q}

	p.int("columns", &columns)
	p.bool("invert", &opts.Invert)
	p.bool("monospace", &opts.MonospaceCorrection)
	p.int("levels", &opts.GrayLevels)
	p.int("threshold", &opts.Threshold)
	if name := q.Get("gray"); name != "" && p.err == nil {
		m, err := imageutil.ParseGrayMethod(name)
		if err != nil {
			p.err = paramErr("gray", err)
		}
		opts.GrayMethod = m
	}

	if q.Has("sigma") && q.Has("low") && q.Has("high") {
		c := &img2braille.CannyOptions{}
		p.float("sigma", &c.Sigma)
		p.float("low", &c.Low)
		p.float("high", &c.High)
		opts.Canny = c
		opts.Adaptive = nil
	}
	if q.Has("window") {
		a := &img2braille.AdaptiveOptions{Window: 15, K: 0.3}
		p.int("window", &a.Window)
		p.float("k", &a.K)
		opts.Adaptive = a
	}
	if p.err != nil {
		return 0, opts, p.err
	}

	if columns < 1 || columns > s.cfg.Server.MaxColumns {
		return 0, opts, paramErr("columns", fmt.Errorf("%d outside [1, %d]", columns, s.cfg.Server.MaxColumns))
	}
	return columns, opts, nil
}

// queryParser records the first parse failure and ignores later fields.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) int(key string, dst *int) {
	if p.err != nil || !p.q.Has(key) {
		return
	}
	v, err := strconv.Atoi(p.q.Get(key))
	if err != nil {
		p.err = paramErr(key, err)
		return
	}
	*dst = v
}

func (p *queryParser) float(key string, dst *float64) {
	if p.err != nil || !p.q.Has(key) {
		return
	}
	v, err := strconv.ParseFloat(p.q.Get(key), 64)
	if err != nil {
		p.err = paramErr(key, err)
		return
	}
	*dst = v
}

func (p *queryParser) bool(key string, dst *bool) {
	if p.err != nil || !p.q.Has(key) {
		return
	}
	raw := p.q.Get(key)
	if raw == "" {
		*dst = true
		return
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.err = paramErr(key, err)
		return
	}
	*dst = v
}

func paramErr(field string, err error) error {
	return &img2braille.ConversionError{
		Kind:   img2braille.ErrInvalidParameter,
		Field:  field,
		Detail: err.Error(),
	}
}

// writeConversionError maps conversion failures onto status codes:
// malformed frames are client errors, out-of-range options are
// unprocessable.
func (s *Server) writeConversionError(w http.ResponseWriter, r *http.Request, err error) {
	kind := img2braille.KindName(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, img2braille.ErrInvalidDimension), errors.Is(err, img2braille.ErrDimensionMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, img2braille.ErrInvalidParameter):
		status = http.StatusUnprocessableEntity
	default:
		kind = "Internal"
	}
	hlog.FromRequest(r).Warn().Err(err).Str("kind", kind).Msg("conversion rejected")
	writeError(w, status, kind, err)
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
