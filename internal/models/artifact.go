package models

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"titanic/internal/features"
)

// ArtifactFile is the file name of the trained artifact inside a model directory.
const ArtifactFile = "model.gob"

var ErrInvalidArtifact = errors.New("artefato de modelo inválido")

func init() {
	gob.Register(&RandomForest{})
	gob.Register(&DecisionTree{})
	gob.Register(&GradientBoosting{})
}

// Artifact is what training hands to inference: the fitted model together
// with the exact feature columns it was fitted on.
type Artifact struct {
	Algo        string
	Model       Model
	Columns     features.ColumnSchema
	Imputation  features.Stats
	NEstimators int
	Metrics     Metrics
	CreatedAt   time.Time
}

func (a *Artifact) Validate() error {
	if a.Model == nil {
		return fmt.Errorf("%w: modelo ausente", ErrInvalidArtifact)
	}
	if len(a.Columns) == 0 {
		return fmt.Errorf("%w: schema de colunas vazio", ErrInvalidArtifact)
	}
	if err := a.Columns.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return nil
}

// Save writes the artifact to dir/model.gob, replacing any previous one.
func (a *Artifact) Save(dir string) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ArtifactFile)
	tmp, err := os.CreateTemp(dir, ArtifactFile+".*")
	if err != nil {
		return "", err
	}
	if err := gob.NewEncoder(tmp).Encode(a); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("serializar modelo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return path, os.Rename(tmp.Name(), path)
}

// LoadArtifact reads dir/model.gob, or path itself when it names a file.
func LoadArtifact(path string) (*Artifact, error) {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		path = filepath.Join(path, ArtifactFile)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var a Artifact
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}
