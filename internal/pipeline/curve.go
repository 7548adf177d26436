package pipeline

import (
	"go.uber.org/zap"

	"titanic/internal/data"
	"titanic/internal/models"
	"titanic/internal/report"
)

type CurveOptions struct {
	Points int
	Min    int
	Log    bool
}

// LearningCurve refits the configured model on growing prefixes of the
// training split and scores each fit on the same holdout rows Train uses.
func LearningCurve(raw *data.Table, opts TrainOptions, co CurveOptions, logger *zap.Logger) (*report.Curve, error) {
	ds, err := Prepare(raw)
	if err != nil {
		return nil, err
	}
	trainIdx, holdIdx, err := SplitIndices(len(ds.Y), opts.TestSize, opts.Seed)
	if err != nil {
		return nil, err
	}
	Xtrain, ytrain := ds.subset(trainIdx)
	Xhold, yhold := ds.subset(holdIdx)

	curve := &report.Curve{}
	for _, s := range report.CurveSizes(len(Xtrain), co.Points, co.Min, co.Log) {
		mdl, err := models.New(opts.Algo, opts.params())
		if err != nil {
			return nil, err
		}
		subX, subY := Xtrain[:s], ytrain[:s]
		if err := mdl.Fit(subX, subY); err != nil {
			return nil, err
		}
		tr := models.Evaluate(subY, mdl.PredictProba(subX), 0.5)
		te := models.Evaluate(yhold, mdl.PredictProba(Xhold), 0.5)
		curve.Add(s, tr.Accuracy, te.Accuracy, tr.F1, te.F1)
		logger.Debug("Ponto da curva", zap.Int("size", s), zap.Float64("train_acc", tr.Accuracy), zap.Float64("test_acc", te.Accuracy))
	}
	return curve, nil
}
