// Package pipeline orchestrates the migration of legacy practice
// collections: decode, cluster, assemble, persist, import. Collections
// are processed strictly one at a time in discovery order; a failure in
// one must never prevent the others from being attempted.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stdforge/stdforge/internal/artifact"
	"github.com/stdforge/stdforge/internal/assemble"
	"github.com/stdforge/stdforge/internal/cluster"
	"github.com/stdforge/stdforge/internal/practice"
)

// Importer pushes one standard to the target system.
type Importer interface {
	ImportStandard(ctx context.Context, standard assemble.Standard) error
}

// Summary aggregates progress counts across the whole run.
type Summary struct {
	Collections       int
	CollectionsFailed int
	Standards         int
	Rules             int
	Examples          int
	DuplicatesRemoved int
	RepairedItems     int
	FallbackItems     int
	ImportsSucceeded  int
	ImportsFailed     int
}

// Succeeded reports whether at least one collection made it all the way
// through; the process exit status mirrors this.
func (s Summary) Succeeded() bool {
	return s.Collections > s.CollectionsFailed && s.Collections > 0
}

// Runner wires the pipeline stages together. Importer may be nil to stop
// after writing the validation documents.
type Runner struct {
	Controller *cluster.Controller
	Convert    assemble.ConvertFunc
	Labels     map[string]string
	Importer   Importer
	OutputDir  string

	// MappingOnly stops each collection after its mapping document is
	// written, so groupings can be reviewed before assembly.
	MappingOnly bool
	// ReuseMappings skips clustering and reads the previously written
	// (possibly hand-edited) mapping documents instead.
	ReuseMappings bool
}

// DiscoverExports lists collection export files under dir in sorted
// order.
func DiscoverExports(dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.ndjson", "*.jsonl"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("discover exports: %w", err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no collection exports found in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// Slug derives the artifact base name for one export file.
func Slug(exportPath string) string {
	base := filepath.Base(exportPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(strings.ToLower(base), " ", "-")
}

// Run processes every export. A malformed export is a fatal input error
// and aborts the whole run; clustering and import failures are isolated
// per collection and per standard.
func (r *Runner) Run(ctx context.Context, exportPaths []string) (Summary, error) {
	var summary Summary
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return summary, fmt.Errorf("create output dir: %w", err)
	}

	for _, path := range exportPaths {
		summary.Collections++
		if err := r.runCollection(ctx, path, &summary); err != nil {
			if errors.Is(err, practice.ErrMalformedRecord) {
				// Fatal input error: a nonsense record aborts the whole
				// run rather than being skipped.
				return summary, err
			}
			summary.CollectionsFailed++
			log.Error().Err(err).Str("collection", Slug(path)).Msg("collection failed")
		}
	}
	return summary, nil
}

func (r *Runner) runCollection(ctx context.Context, exportPath string, summary *Summary) error {
	slug := Slug(exportPath)
	log.Info().Str("collection", slug).Msg("processing collection")

	f, err := os.Open(exportPath)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	records, err := practice.DecodeCollection(f)
	closeErr := f.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return fmt.Errorf("close export: %w", closeErr)
	}

	mappingPath := filepath.Join(r.OutputDir, slug+".mapping.yaml")
	var mapping cluster.Mapping
	var attempts int
	if r.ReuseMappings {
		if mapping, err = artifact.ReadMapping(mappingPath); err != nil {
			return err
		}
	} else {
		items := make([]cluster.Item, len(records))
		for i, rec := range records {
			items[i] = cluster.Item{Name: rec.Name, Description: rec.Description}
		}
		var stats cluster.Stats
		mapping, stats, err = r.Controller.Run(ctx, items)
		if err != nil {
			return fmt.Errorf("cluster collection: %w", err)
		}
		attempts = stats.Attempts
		summary.DuplicatesRemoved += stats.DuplicatesRemoved
		summary.RepairedItems += stats.RepairedItems
		summary.FallbackItems += stats.FallbackItems
		if err := artifact.WriteMapping(mappingPath, mapping); err != nil {
			return err
		}
	}
	if r.MappingOnly {
		log.Info().Str("collection", slug).Int("attempts", attempts).Msg("mapping written")
		return nil
	}

	standards := assemble.Assemble(records, mapping, r.Labels, r.Convert)
	doc := artifact.ValidationDocument{Collection: slug, Standards: standards}
	validationPath := filepath.Join(r.OutputDir, slug+".validation.yaml")
	if err := artifact.WriteValidation(validationPath, doc); err != nil {
		return err
	}

	summary.Standards += len(standards)
	for _, s := range standards {
		summary.Rules += len(s.Rules)
		for _, rule := range s.Rules {
			summary.Examples += len(rule.Positive) + len(rule.Negative)
		}
	}

	if r.Importer != nil {
		importStandards(ctx, r.Importer, slug, standards, summary)
	}

	log.Info().
		Str("collection", slug).
		Int("standards", len(standards)).
		Int("attempts", attempts).
		Msg("collection processed")
	return nil
}

// DiscoverValidations lists previously written validation documents
// under dir in sorted order.
func DiscoverValidations(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.validation.yaml"))
	if err != nil {
		return nil, fmt.Errorf("discover validations: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no validation documents found in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// ImportValidated pushes every standard from reviewed validation
// documents to the target system. An unreadable document fails its
// collection without blocking the others.
func ImportValidated(ctx context.Context, importer Importer, paths []string) (Summary, error) {
	var summary Summary
	for _, path := range paths {
		summary.Collections++
		doc, err := artifact.ReadValidation(path)
		if err != nil {
			summary.CollectionsFailed++
			log.Error().Err(err).Str("path", path).Msg("validation document unreadable")
			continue
		}
		summary.Standards += len(doc.Standards)
		for _, s := range doc.Standards {
			summary.Rules += len(s.Rules)
			for _, rule := range s.Rules {
				summary.Examples += len(rule.Positive) + len(rule.Negative)
			}
		}
		importStandards(ctx, importer, doc.Collection, doc.Standards, &summary)
	}
	return summary, nil
}

// importStandards uploads one standard at a time so partial success stays
// observable; a rejected standard never blocks its siblings.
func importStandards(ctx context.Context, importer Importer, slug string, standards []assemble.Standard, summary *Summary) {
	for _, s := range standards {
		if err := importer.ImportStandard(ctx, s); err != nil {
			summary.ImportsFailed++
			log.Error().Err(err).Str("collection", slug).Str("standard", s.Name).Msg("import failed")
			continue
		}
		summary.ImportsSucceeded++
		log.Info().Str("collection", slug).Str("standard", s.Name).Msg("standard imported")
	}
}
