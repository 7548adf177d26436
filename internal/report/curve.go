package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"titanic/internal/data"
)

// Curve is a learning curve: holdout and training scores of models fitted on
// increasing prefixes of the training split.
type Curve struct {
	Sizes    []int
	TrainAcc []float64
	TestAcc  []float64
	TrainF1  []float64
	TestF1   []float64
}

var CurveHeader = []string{"size", "train_acc", "test_acc", "train_f1", "test_f1"}

func (c *Curve) Add(size int, trainAcc, testAcc, trainF1, testF1 float64) {
	c.Sizes = append(c.Sizes, size)
	c.TrainAcc = append(c.TrainAcc, trainAcc)
	c.TestAcc = append(c.TestAcc, testAcc)
	c.TrainF1 = append(c.TrainF1, trainF1)
	c.TestF1 = append(c.TestF1, testF1)
}

func (c *Curve) Table() *data.Table {
	t := &data.Table{Header: append([]string(nil), CurveHeader...)}
	for i := range c.Sizes {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(c.Sizes[i]),
			fmt.Sprintf("%.6f", c.TrainAcc[i]), fmt.Sprintf("%.6f", c.TestAcc[i]),
			fmt.Sprintf("%.6f", c.TrainF1[i]), fmt.Sprintf("%.6f", c.TestF1[i]),
		})
	}
	return t
}

func WriteCurveCSV(path string, c *Curve) error {
	return data.WriteCSV(path, c.Table())
}

func PlotCurvePNG(path string, c *Curve) error {
	if len(c.Sizes) == 0 {
		return fmt.Errorf("curva vazia")
	}
	p := plot.New()
	p.Title.Text = "Curva de Aprendizagem"
	p.X.Label.Text = "Amostras de treino"
	p.Y.Label.Text = "Métrica"
	p.Y.Min = 0
	p.Y.Max = 1

	toXY := func(ys []float64) plotter.XYs {
		pts := make(plotter.XYs, len(c.Sizes))
		for i := range c.Sizes {
			pts[i].X = float64(c.Sizes[i])
			pts[i].Y = ys[i]
		}
		return pts
	}
	if err := plotutil.AddLinePoints(p,
		"Treino (Acc)", toXY(c.TrainAcc), "Validação (Acc)", toXY(c.TestAcc),
		"Treino (F1)", toXY(c.TrainF1), "Validação (F1)", toXY(c.TestF1),
	); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// CurveSizes picks up to points increasing training sizes from min to total,
// spaced geometrically when useLog is set. The last size is always total.
func CurveSizes(total, points, min int, useLog bool) []int {
	if total <= 0 {
		return nil
	}
	if points <= 1 {
		points = 2
	}
	if min < 1 {
		min = 1
	}
	if min > total {
		min = int(math.Max(1, float64(total)/2))
	}
	sizes := make([]int, 0, points)
	if useLog {
		ratio := math.Pow(float64(total)/float64(min), 1.0/float64(points-1))
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)*math.Pow(ratio, float64(i)))))
		}
	} else {
		step := float64(total-min) / float64(points-1)
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)+float64(i)*step)))
		}
	}
	cleaned := make([]int, 0, len(sizes))
	last := 0
	for _, s := range sizes {
		if s > total {
			s = total
		}
		if s > last {
			cleaned = append(cleaned, s)
			last = s
		}
	}
	if len(cleaned) == 0 || cleaned[len(cleaned)-1] != total {
		cleaned = append(cleaned, total)
	}
	return cleaned
}
