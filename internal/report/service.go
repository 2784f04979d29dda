// Package report orchestrates report generation: parse an inspection
// record, map it onto the TREC template's fields, validate the mapping
// against the template and write the filled PDF.
package report

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/binsr/inspection-report-server/internal/config"
	"github.com/binsr/inspection-report-server/internal/images"
	"github.com/binsr/inspection-report-server/internal/inspection"
	"github.com/binsr/inspection-report-server/internal/pdf"
	"github.com/binsr/inspection-report-server/internal/trec"
)

// Service wires the inspection parser, the field mappers and the PDF layer
// together under one configuration.
type Service struct {
	cfg    *config.Config
	filler *trec.Filler
	images *images.Handler
}

// NewService creates a report service from the given configuration.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Service{
		cfg:    cfg,
		filler: trec.DefaultFiller(),
		images: images.NewHandler(cfg.ImageCacheDir, cfg.ImageTimeout, 0),
	}, nil
}

// GenerateRequest describes one report generation run.
type GenerateRequest struct {
	DataPath   string // inspection record JSON
	OutputPath string // optional, defaults to a name under the output dir
}

// GenerateResult summarizes a completed generation run.
type GenerateResult struct {
	RunID           string
	ReportID        string
	OutputPath      string
	FieldsWritten   int
	FieldsSkipped   int
	DroppedItems    int
	DroppedComments int
	Warnings        []string
	ParseStats      *inspection.ParseStats
	CachedPhotos    []string
	Duration        time.Duration
}

// Generate runs the full pipeline for one inspection record and writes the
// filled report PDF.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	runID := uuid.New().String()

	rec, stats, err := inspection.ParseFile(req.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inspection record: %w", err)
	}
	log.Printf("Run %s: parsed record %s (%d sections, %d items)",
		runID, rec.ID, stats.Sections, stats.Items)

	tmpl, err := pdf.OpenTemplate(s.cfg.TemplatePath, s.cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}

	fill := s.filler.Fill(rec)

	declared, err := tmpl.DeclaredSet()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate template fields: %w", err)
	}
	if _, err := s.filler.Validate(fill, declared); err != nil {
		return nil, fmt.Errorf("fill validation failed: %w", err)
	}

	outPath := req.OutputPath
	if outPath == "" {
		outPath = filepath.Join(s.cfg.OutputDir, reportFileName(rec.ID, runID))
	}

	written, err := tmpl.Fill(fill.Fields, outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	result := &GenerateResult{
		RunID:           runID,
		ReportID:        rec.ID,
		OutputPath:      outPath,
		FieldsWritten:   written.Written,
		FieldsSkipped:   written.Skipped,
		DroppedItems:    fill.DroppedItems,
		DroppedComments: fill.DroppedComments,
		Warnings:        warningStrings(fill.Warnings),
		ParseStats:      stats,
		Duration:        time.Since(start),
	}

	if s.cfg.CachePhotos {
		result.CachedPhotos = s.cacheDeficientPhotos(ctx, rec)
	}

	log.Printf("Run %s: wrote %s (%d fields, %d skipped) in %v",
		runID, outPath, result.FieldsWritten, result.FieldsSkipped, result.Duration)
	return result, nil
}

// cacheDeficientPhotos downloads the photos attached to deficient line
// items. Download failures are logged and skipped; photo caching never
// fails a generation run.
func (s *Service) cacheDeficientPhotos(ctx context.Context, rec *inspection.Record) []string {
	var cached []string
	for _, section := range rec.Sections {
		for _, item := range section.Items {
			if trec.Classify(item) != trec.StatusDeficient {
				continue
			}
			for _, url := range item.Photos {
				path, err := s.images.Fetch(ctx, url)
				if err != nil {
					log.Printf("Failed to cache photo for %s: %v", item.Label(), err)
					continue
				}
				cached = append(cached, path)
			}
		}
	}
	return cached
}

// FieldPreview is the dry-run counterpart of Generate: the mapped field
// values and validation outcome without touching the template file.
type FieldPreview struct {
	ReportID        string
	Fields          map[string]string
	Warnings        []string
	DroppedItems    int
	DroppedComments int
	Matched         int
	Unmatched       int
}

// PreviewFields maps an inspection record onto field values without
// writing a PDF. Validation runs against the template when it can be
// opened and against the required set alone otherwise.
func (s *Service) PreviewFields(ctx context.Context, dataPath string) (*FieldPreview, error) {
	rec, _, err := inspection.ParseFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inspection record: %w", err)
	}

	fill := s.filler.Fill(rec)

	var declared map[string]bool
	if tmpl, err := pdf.OpenTemplate(s.cfg.TemplatePath, s.cfg.MaxFileSize); err == nil {
		if declared, err = tmpl.DeclaredSet(); err != nil {
			return nil, fmt.Errorf("failed to enumerate template fields: %w", err)
		}
	} else {
		log.Printf("Template unavailable for preview, validating required fields only: %v", err)
	}

	validation, err := s.filler.Validate(fill, declared)
	if err != nil {
		return nil, fmt.Errorf("fill validation failed: %w", err)
	}

	return &FieldPreview{
		ReportID:        rec.ID,
		Fields:          fill.Fields,
		Warnings:        warningStrings(fill.Warnings),
		DroppedItems:    fill.DroppedItems,
		DroppedComments: fill.DroppedComments,
		Matched:         len(validation.Matched),
		Unmatched:       len(validation.Unmatched),
	}, nil
}

// TemplateReport describes whether the configured template can serve
// report generation.
type TemplateReport struct {
	Info            *pdf.TemplateInfo
	MissingRequired []string
	TextSlots       int
	CheckboxSlots   int
}

// ValidateTemplate opens the configured template and checks its declared
// fields against the layout the mappers produce.
func (s *Service) ValidateTemplate(ctx context.Context) (*TemplateReport, error) {
	tmpl, err := pdf.OpenTemplate(s.cfg.TemplatePath, s.cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}

	info, err := tmpl.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to inspect template: %w", err)
	}

	declared, err := tmpl.DeclaredSet()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate template fields: %w", err)
	}

	rep := &TemplateReport{Info: info}
	for _, name := range trec.RequiredFields() {
		if !declared[name] {
			rep.MissingRequired = append(rep.MissingRequired, name)
		}
	}
	for _, name := range trec.DefaultTextSlots() {
		if declared[name] {
			rep.TextSlots++
		}
	}
	for _, name := range trec.CheckboxFieldNames() {
		if declared[name] {
			rep.CheckboxSlots++
		}
	}
	return rep, nil
}

// Summary condenses an inspection record for a quick look without
// generating anything.
type Summary struct {
	ReportID      string
	ClientName    string
	InspectorName string
	Address       string
	Sections      int
	Items         int
	StatusCounts  map[string]int
	Deficient     []string
}

// InspectionSummary parses an inspection record and tallies its line items
// by mapped status.
func (s *Service) InspectionSummary(ctx context.Context, dataPath string) (*Summary, error) {
	rec, _, err := inspection.ParseFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inspection record: %w", err)
	}

	sum := &Summary{
		ReportID:      rec.ID,
		ClientName:    rec.Client.Name,
		InspectorName: rec.Inspector.Name,
		Address:       trec.FormatAddress(rec.Property),
		Sections:      len(rec.Sections),
		StatusCounts:  make(map[string]int),
	}
	for _, section := range rec.Sections {
		for _, item := range section.Items {
			sum.Items++
			status := trec.Classify(item)
			sum.StatusCounts[string(status)]++
			if status == trec.StatusDeficient {
				sum.Deficient = append(sum.Deficient, section.Name+" > "+item.Label())
			}
		}
	}
	return sum, nil
}

// reportFileName builds a stable output name from the report id and run id.
func reportFileName(reportID, runID string) string {
	id := strings.TrimSpace(reportID)
	if id == "" || id == inspection.Placeholder {
		id = "report"
	}
	return fmt.Sprintf("TREC_%s_%s.pdf", sanitizeFileName(id), runID)
}

// sanitizeFileName strips path separators and other unsafe characters from
// an id before it becomes part of a file name.
func sanitizeFileName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func warningStrings(warnings []trec.Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}
