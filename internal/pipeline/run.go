package pipeline

import (
	"go.uber.org/zap"

	"titanic/internal/config"
	"titanic/internal/data"
	"titanic/internal/models"
)

// RunTraining reads <train-dir>/train.csv, trains and writes the artifact to
// the model directory. It returns the artifact path.
func RunTraining(rt config.Runtime, opts TrainOptions, logger *zap.Logger) (*TrainResult, string, error) {
	path := rt.Paths.TrainCSV()
	logger.Info("Lendo dados de treino", zap.String("path", path), zap.String("environment", rt.Environment))
	raw, err := data.ReadCSV(path)
	if err != nil {
		return nil, "", err
	}
	res, err := Train(raw, opts, logger)
	if err != nil {
		return nil, "", err
	}
	out, err := res.Artifact.Save(rt.Paths.ModelDir)
	if err != nil {
		return nil, "", err
	}
	logger.Info("Modelo salvo", zap.String("path", out), zap.Strings("colunas", res.Artifact.Columns))
	return res, out, nil
}

// RunInference loads the artifact, classifies <test-dir>/test.csv and writes
// <output-dir>/predictions.csv. It returns the predictions path.
func RunInference(rt config.Runtime, logger *zap.Logger) (*Predictions, string, error) {
	art, err := models.LoadArtifact(rt.Paths.ModelDir)
	if err != nil {
		return nil, "", err
	}
	logger.Info("Modelo carregado", zap.String("algo", art.Algo), zap.String("model", art.Model.Name()), zap.Int("colunas", len(art.Columns)))
	raw, err := data.ReadCSV(rt.Paths.TestCSV())
	if err != nil {
		return nil, "", err
	}
	preds, err := Predict(raw, art, PredictOptions{UseTrainingStats: rt.UseTrainingStats()})
	if err != nil {
		return nil, "", err
	}
	out := rt.Paths.PredictionsCSV()
	if err := data.WriteCSV(out, preds.Table()); err != nil {
		return nil, "", err
	}
	logger.Info("Previsões salvas", zap.String("path", out), zap.Int("linhas", len(preds.Labels)), zap.String("imputacao", rt.ImputeMode))
	return preds, out, nil
}
