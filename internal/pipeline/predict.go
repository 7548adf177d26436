package pipeline

import (
	"fmt"
	"strconv"

	"titanic/internal/data"
	"titanic/internal/features"
	"titanic/internal/models"
)

type PredictOptions struct {
	// UseTrainingStats imputes with the statistics stored in the artifact
	// instead of the batch's own medians and mode.
	UseTrainingStats bool
}

// Predictions holds one label per input row, in input order.
type Predictions struct {
	IDs    []string
	Labels []int
}

var PredictionsHeader = []string{features.ColID, features.ColLabel}

func (p *Predictions) Table() *data.Table {
	t := &data.Table{Header: append([]string(nil), PredictionsHeader...), Rows: make([][]string, len(p.Labels))}
	for i, l := range p.Labels {
		t.Rows[i] = []string{p.IDs[i], strconv.Itoa(l)}
	}
	return t
}

// Predict aligns raw records to the artifact's column schema and classifies them.
func Predict(raw *data.Table, art *models.Artifact, opts PredictOptions) (*Predictions, error) {
	if err := art.Validate(); err != nil {
		return nil, err
	}
	ids, ok := raw.Column(features.ColID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", features.ErrMissingColumn, features.ColID)
	}
	popts := features.Options{Schema: art.Columns}
	if opts.UseTrainingStats {
		stats := art.Imputation
		popts.Stats = &stats
	}
	ft, err := features.PreprocessWith(raw, popts)
	if err != nil {
		return nil, err
	}
	if err := features.CheckAligned(ft, art.Columns); err != nil {
		return nil, err
	}
	labels := art.Model.Predict(ft.Rows)
	if len(labels) != len(ids) {
		return nil, fmt.Errorf("modelo retornou %d previsões para %d linhas", len(labels), len(ids))
	}
	return &Predictions{IDs: ids, Labels: labels}, nil
}
