package models

import (
	"errors"
	"fmt"
)

var ErrEmptyTrainingSet = errors.New("conjunto de treino vazio")

// Model is a binary classifier over dense feature rows. Column i of every row
// must mean the same feature at fit and predict time.
type Model interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64
	Name() string
}

const (
	AlgoRandomForest     = "rf"
	AlgoDecisionTree     = "dt"
	AlgoGradientBoosting = "gb"
)

// Params carries the hyperparameters exposed on the command line. Zero values
// keep each model's defaults.
type Params struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	LearningRate    float64
	Seed            int64
}

func New(algo string, p Params) (Model, error) {
	switch algo {
	case AlgoRandomForest, "":
		rf := NewRandomForest()
		if p.NEstimators > 0 {
			rf.NEstimators = p.NEstimators
		}
		if p.MaxDepth > 0 {
			rf.MaxDepth = p.MaxDepth
		}
		if p.MinSamplesSplit > 0 {
			rf.MinSamples = p.MinSamplesSplit
		}
		rf.Seed = p.Seed
		return rf, nil
	case AlgoDecisionTree:
		dt := NewDecisionTree()
		if p.MaxDepth > 0 {
			dt.MaxDepth = p.MaxDepth
		}
		if p.MinSamplesSplit > 0 {
			dt.MinSamplesSplit = p.MinSamplesSplit
		}
		dt.Seed = p.Seed
		return dt, nil
	case AlgoGradientBoosting:
		gb := NewGradientBoosting()
		if p.NEstimators > 0 {
			gb.NEstimators = p.NEstimators
		}
		if p.LearningRate > 0 {
			gb.LearningRate = p.LearningRate
		}
		return gb, nil
	}
	return nil, fmt.Errorf("algoritmo desconhecido %q (use rf|dt|gb)", algo)
}

func checkFitInput(X [][]float64, y []int) error {
	if len(X) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return fmt.Errorf("X tem %d linhas e y tem %d", len(X), len(y))
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("rótulo inválido %d na linha %d (esperado 0 ou 1)", v, i)
		}
	}
	return nil
}

func probaToPred(ps []float64, thr float64) []int {
	out := make([]int, len(ps))
	for i := range ps {
		if ps[i] >= thr {
			out[i] = 1
		}
	}
	return out
}
