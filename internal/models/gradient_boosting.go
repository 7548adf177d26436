package models

import (
	"math"
	"sort"
)

type gbTree struct {
	Feature   int
	Threshold float64
	LeftVal   float64
	RightVal  float64
}

// GradientBoosting fits depth-one regression stumps to the logistic loss
// residuals. Init is the log-odds of the training prior.
type GradientBoosting struct {
	NEstimators        int
	LearningRate       float64
	MinSamples         int
	MaxThresholdsPerFe int
	Init               float64
	Trees              []gbTree
}

func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{NEstimators: 100, LearningRate: 0.1, MinSamples: 1, MaxThresholdsPerFe: 32}
}

func (gb *GradientBoosting) Name() string { return "GradientBoosting" }

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func (gb *GradientBoosting) Fit(X [][]float64, y []int) error {
	if err := checkFitInput(X, y); err != nil {
		return err
	}
	n := len(X)
	pos := 0
	for i := 0; i < n; i++ {
		pos += y[i]
	}
	base := float64(pos) / float64(n)
	base = math.Min(math.Max(base, 1e-3), 1-1e-3)
	gb.Init = math.Log(base / (1.0 - base))
	gb.Trees = gb.Trees[:0]
	F := make([]float64, n)
	for i := range F {
		F[i] = gb.Init
	}

	nFeats := len(X[0])
	cands := make([][]float64, nFeats)
	for j := range cands {
		cands[j] = gbCandidateThresholds(X, j, gb.MaxThresholdsPerFe)
	}

	r := make([]float64, n)
	for m := 0; m < gb.NEstimators; m++ {
		for i := 0; i < n; i++ {
			r[i] = float64(y[i]) - sigmoid(F[i])
		}
		best := gbTree{Feature: -1}
		bestSSE := math.MaxFloat64
		for j := 0; j < nFeats; j++ {
			for _, thr := range cands[j] {
				t, sse, ok := gb.fitStump(X, r, j, thr)
				if ok && sse < bestSSE {
					bestSSE = sse
					best = t
				}
			}
		}
		if best.Feature == -1 {
			break
		}
		gb.Trees = append(gb.Trees, best)
		for i := 0; i < n; i++ {
			F[i] += gb.LearningRate * best.eval(X[i])
		}
	}
	return nil
}

func (gb *GradientBoosting) fitStump(X [][]float64, r []float64, j int, thr float64) (gbTree, float64, bool) {
	var leftSum, rightSum float64
	var leftCount, rightCount int
	for i := range X {
		if X[i][j] <= thr {
			leftSum += r[i]
			leftCount++
		} else {
			rightSum += r[i]
			rightCount++
		}
	}
	if leftCount == 0 || rightCount == 0 || leftCount < gb.MinSamples || rightCount < gb.MinSamples {
		return gbTree{}, 0, false
	}
	t := gbTree{Feature: j, Threshold: thr, LeftVal: leftSum / float64(leftCount), RightVal: rightSum / float64(rightCount)}
	var sse float64
	for i := range X {
		d := r[i] - t.eval(X[i])
		sse += d * d
	}
	return t, sse, true
}

func (t gbTree) eval(x []float64) float64 {
	if t.Feature < len(x) && x[t.Feature] > t.Threshold {
		return t.RightVal
	}
	return t.LeftVal
}

func (gb *GradientBoosting) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		f := gb.Init
		for _, t := range gb.Trees {
			f += gb.LearningRate * t.eval(X[i])
		}
		out[i] = sigmoid(f)
	}
	return out
}

func (gb *GradientBoosting) Predict(X [][]float64) []int {
	return probaToPred(gb.PredictProba(X), 0.5)
}

func gbCandidateThresholds(X [][]float64, j int, nCand int) []float64 {
	if nCand <= 0 {
		nCand = 16
	}
	n := len(X)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = X[i][j]
	}
	sort.Float64s(vals)
	out := make([]float64, 0, nCand)
	for k := 1; k < nCand; k++ {
		idx := int(math.Round(float64(k) / float64(nCand) * float64(n-1)))
		if idx <= 0 || idx >= n {
			continue
		}
		thr := vals[idx]
		if len(out) == 0 || thr != out[len(out)-1] {
			out = append(out, thr)
		}
	}
	if len(out) == 0 {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += vals[i]
		}
		out = append(out, sum/float64(n))
	}
	return out
}
