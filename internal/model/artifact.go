package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/your-org/demand-forecast/internal/feature"
)

//go:embed artifact.schema.json
var artifactSchema []byte

var artifactSchemaLoader = gojsonschema.NewBytesLoader(artifactSchema)

// artifact is the on-disk form of a fitted GradientBoosting model.
type artifact struct {
	Version      string    `json:"version"`
	FeatureNames []string  `json:"feature_names"`
	Params       Params    `json:"params"`
	BaseScore    float64   `json:"base_score"`
	TrainedAt    time.Time `json:"trained_at"`
	Trees        []*node   `json:"trees"`
}

// Save writes the fitted model to path, replacing any previous file atomically.
func (m *GradientBoosting) Save(path string) error {
	if len(m.trees) == 0 {
		return ErrNotFitted
	}
	doc := artifact{
		Version:      m.version,
		FeatureNames: feature.Names(),
		Params:       m.params,
		BaseScore:    m.baseScore,
		TrainedAt:    m.trainedAt,
		Trees:        m.trees,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move model into place: %w", err)
	}
	return nil
}

// Load reads a model written by Save.
func Load(path string) (*GradientBoosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if err := validateArtifact(data); err != nil {
		return nil, fmt.Errorf("%w: artifact %s: %v", ErrModelUnavailable, path, err)
	}
	var doc artifact
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: corrupt artifact %s: %v", ErrModelUnavailable, path, err)
	}
	if !feature.SameSchema(doc.FeatureNames) {
		return nil, fmt.Errorf("%w: artifact has %v", ErrSchemaMismatch, doc.FeatureNames)
	}
	if len(doc.Trees) == 0 {
		return nil, fmt.Errorf("%w: artifact %s has no trees", ErrModelUnavailable, path)
	}
	return &GradientBoosting{
		params:    doc.Params,
		version:   doc.Version,
		baseScore: doc.BaseScore,
		trees:     doc.Trees,
		trainedAt: doc.TrainedAt,
	}, nil
}

// validateArtifact checks data against the embedded artifact schema.
func validateArtifact(data []byte) error {
	result, err := gojsonschema.Validate(artifactSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("unreadable: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
}

// Exists reports whether a file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
