package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/dataaudit/internal/analysis"
	"github.com/JonMunkholm/dataaudit/internal/loader"
	"github.com/JonMunkholm/dataaudit/internal/logging"
)

// DefaultAllowedExtensions are the file types accepted when none are configured.
var DefaultAllowedExtensions = []string{"csv", "xlsx", "xls"}

// Config is the explicit configuration of a Gateway.
type Config struct {
	Dir               string
	AllowedExtensions []string
	MaxFileSize       int64
	MaxConcurrent     int
	MaxWaitTime       time.Duration
	// KeepFiles leaves working files on disk after analysis.
	KeepFiles bool
}

// Observer receives timing for completed analyses.
type Observer interface {
	AnalysisCompleted(rows int, elapsed time.Duration)
}

// Gateway validates an uploaded file, stores it, loads it and analyzes it.
type Gateway struct {
	cfg      Config
	allowed  map[string]struct{}
	validate *validator.Validate
	limiter  *Limiter
	store    *Store
	loader   *loader.Loader
	observer Observer
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithObserver reports analysis timings to o.
func WithObserver(o Observer) Option {
	return func(g *Gateway) { g.observer = o }
}

// fileRequest is the validated part of an upload request.
type fileRequest struct {
	Filename string `validate:"required,allowed_ext"`
}

// NewGateway builds a Gateway and prepares its working directory.
func NewGateway(ctx context.Context, cfg Config, opts ...Option) (*Gateway, error) {
	if cfg.Dir == "" {
		return nil, errors.New("upload dir is required")
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = DefaultAllowedExtensions
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = loader.DefaultMaxFileSize
	}

	store, err := NewStore(ctx, cfg.Dir, cfg.MaxFileSize)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		cfg:     cfg,
		allowed: make(map[string]struct{}, len(cfg.AllowedExtensions)),
		limiter: NewLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		store:   store,
		loader:  loader.New(cfg.MaxFileSize),
	}
	for _, ext := range cfg.AllowedExtensions {
		g.allowed[normalizeExt(ext)] = struct{}{}
	}

	g.validate = validator.New(validator.WithRequiredStructEnabled())
	if err := g.validate.RegisterValidation("allowed_ext", func(fl validator.FieldLevel) bool {
		return g.Allowed(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register validator: %w", err)
	}

	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Limiter exposes the concurrency limiter for health reporting and shutdown.
func (g *Gateway) Limiter() *Limiter { return g.limiter }

// AllowedExtensions returns the configured extensions, lower-cased and sorted.
func (g *Gateway) AllowedExtensions() []string {
	exts := make([]string, 0, len(g.allowed))
	for ext := range g.allowed {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Allowed reports whether filename has an accepted extension. The check is
// case-insensitive and requires a non-empty extension.
func (g *Gateway) Allowed(filename string) bool {
	ext := normalizeExt(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	_, ok := g.allowed[ext]
	return ok
}

// Validate checks the client-supplied filename.
func (g *Gateway) Validate(filename string) error {
	err := g.validate.Struct(fileRequest{Filename: filename})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required":
			return NewValidationError("file", MsgNoSelectedFile)
		default:
			return NewValidationError("file", MsgTypeNotAllowed)
		}
	}
	return err
}

// Process validates filename, saves r to a unique working file, loads it
// as a table and returns its completeness report. Load and analysis
// failures are returned unchanged so their messages reach the client.
func (g *Gateway) Process(ctx context.Context, filename string, r io.Reader) (*analysis.Report, error) {
	if err := g.Validate(filename); err != nil {
		return nil, err
	}
	format, err := loader.FormatFromExtension(filepath.Ext(filename))
	if err != nil {
		return nil, NewValidationError("file", MsgTypeNotAllowed)
	}

	if err := g.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer g.limiter.Release()

	logger := logging.WithFields(ctx, "filename", filename, "format", format.String())

	path, err := g.store.Save(ctx, workingName(filename), r)
	if err != nil {
		return nil, &loader.LoadError{Format: format, Err: err}
	}
	if !g.cfg.KeepFiles {
		defer func() {
			if err := g.store.Remove(context.WithoutCancel(ctx), path); err != nil {
				logger.Warn("failed to remove working file", slog.String("path", path), slog.String("error", err.Error()))
			}
		}()
	}

	start := time.Now()
	tbl, err := g.loader.Load(path, format)
	if err != nil {
		return nil, err
	}
	report, err := analysis.Analyze(tbl)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	if g.observer != nil {
		g.observer.AnalysisCompleted(report.TotalRows, elapsed)
	}
	logger.Info("file analyzed",
		slog.Int("rows", report.TotalRows),
		slog.Int("columns", report.TotalColumns),
		slog.Duration("elapsed", elapsed),
	)
	return report, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
