package pipeline

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"titanic/internal/data"
	"titanic/internal/features"
	"titanic/internal/models"
)

var (
	ErrMissingLabel = errors.New("coluna Survived ausente nos dados de treino")
	ErrTooFewRows   = errors.New("são necessárias ao menos 2 linhas para separar treino e validação")
)

type TrainOptions struct {
	Algo            string
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	LearningRate    float64
	TestSize        float64
	Seed            int64
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Algo: models.AlgoRandomForest, NEstimators: 100, TestSize: 0.2, Seed: 42}
}

func (o TrainOptions) params() models.Params {
	return models.Params{
		NEstimators:     o.NEstimators,
		MaxDepth:        o.MaxDepth,
		MinSamplesSplit: o.MinSamplesSplit,
		LearningRate:    o.LearningRate,
		Seed:            o.Seed,
	}
}

type TrainResult struct {
	Artifact    *models.Artifact
	Holdout     models.Metrics
	TrainRows   int
	HoldoutRows int
}

// Dataset is a preprocessed training table split into features and labels.
type Dataset struct {
	Columns features.ColumnSchema
	X       [][]float64
	Y       []int
}

// Prepare preprocesses raw training records and separates the Survived label.
// The remaining columns, in table order, become the column schema.
func Prepare(raw *data.Table) (*Dataset, error) {
	ft, err := features.Preprocess(raw, nil)
	if err != nil {
		return nil, err
	}
	labels, ok := ft.Pop(features.ColLabel)
	if !ok {
		return nil, ErrMissingLabel
	}
	y := make([]int, len(labels))
	for i, v := range labels {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("linha %d: Survived deve ser 0 ou 1, recebido %v", i+1, v)
		}
		y[i] = int(v)
	}
	if len(ft.Columns) == 0 {
		return nil, errors.New("nenhuma coluna de feature após o pré-processamento")
	}
	return &Dataset{Columns: features.ColumnSchema(ft.Columns), X: ft.Rows, Y: y}, nil
}

func (d *Dataset) subset(idx []int) ([][]float64, []int) {
	X := make([][]float64, len(idx))
	y := make([]int, len(idx))
	for i, j := range idx {
		X[i], y[i] = d.X[j], d.Y[j]
	}
	return X, y
}

// SplitIndices shuffles 0..n-1 with seed and holds out ceil(testSize*n) rows,
// keeping at least one row on each side.
func SplitIndices(n int, testSize float64, seed int64) (train, holdout []int, err error) {
	if n < 2 {
		return nil, nil, ErrTooFewRows
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size deve estar em (0, 1), recebido %v", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTest = min(max(nTest, 1), n-1)
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Train fits a classifier on raw labelled records and packages it with the
// feature columns and imputation statistics it was trained with.
func Train(raw *data.Table, opts TrainOptions, logger *zap.Logger) (*TrainResult, error) {
	ds, err := Prepare(raw)
	if err != nil {
		return nil, err
	}
	stats, err := features.ComputeStats(raw)
	if err != nil {
		return nil, err
	}
	trainIdx, holdIdx, err := SplitIndices(len(ds.Y), opts.TestSize, opts.Seed)
	if err != nil {
		return nil, err
	}
	Xtrain, ytrain := ds.subset(trainIdx)
	Xhold, yhold := ds.subset(holdIdx)

	var pos int
	for _, v := range ds.Y {
		pos += v
	}
	logger.Info("Distribuição da classe", zap.Int("sobreviventes", pos), zap.Int("nao_sobreviventes", len(ds.Y)-pos))

	mdl, err := models.New(opts.Algo, opts.params())
	if err != nil {
		return nil, err
	}
	if err := mdl.Fit(Xtrain, ytrain); err != nil {
		return nil, fmt.Errorf("falha ao treinar %s: %w", mdl.Name(), err)
	}
	metrics := models.Evaluate(yhold, mdl.PredictProba(Xhold), 0.5)
	logger.Info("Métricas holdout",
		zap.String("model", mdl.Name()),
		zap.Float64("accuracy", metrics.Accuracy),
		zap.Float64("f1", metrics.F1),
		zap.Float64("precision", metrics.Precision),
		zap.Float64("recall", metrics.Recall),
		zap.Float64("roc_auc", metrics.ROCAUC),
		zap.Int("treino", len(ytrain)),
		zap.Int("validacao", len(yhold)),
	)

	return &TrainResult{
		Artifact: &models.Artifact{
			Algo:        opts.Algo,
			Model:       mdl,
			Columns:     ds.Columns,
			Imputation:  stats,
			NEstimators: opts.NEstimators,
			Metrics:     metrics,
			CreatedAt:   time.Now().UTC(),
		},
		Holdout:     metrics,
		TrainRows:   len(ytrain),
		HoldoutRows: len(yhold),
	}, nil
}

// WithHyperParameters applies the platform's string hyperparameters on top of o.
// Unknown keys are ignored.
func (o TrainOptions) WithHyperParameters(hp map[string]string) (TrainOptions, error) {
	var errs error
	for k, v := range hp {
		var err error
		switch k {
		case "n_estimators":
			o.NEstimators, err = strconv.Atoi(v)
		case "max_depth":
			o.MaxDepth, err = strconv.Atoi(v)
		case "min_samples_split":
			o.MinSamplesSplit, err = strconv.Atoi(v)
		case "learning_rate":
			o.LearningRate, err = strconv.ParseFloat(v, 64)
		case "random_state":
			o.Seed, err = strconv.ParseInt(v, 10, 64)
		case "algo":
			o.Algo = v
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("hiperparâmetro %s=%q: %w", k, v, err))
		}
	}
	return o, errs
}
