package report

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"titanic/internal/data"
)

func TestCurveSizes(t *testing.T) {
	got := CurveSizes(100, 5, 20, false)
	want := []int{20, 40, 60, 80, 100}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("linear sizes = %v, want %v", got, want)
	}
	logSizes := CurveSizes(1000, 4, 10, true)
	if !reflect.DeepEqual(logSizes, []int{10, 46, 215, 1000}) {
		t.Fatalf("log sizes = %v", logSizes)
	}
	small := CurveSizes(3, 10, 1, false)
	for i := 1; i < len(small); i++ {
		if small[i] <= small[i-1] {
			t.Fatalf("sizes must increase: %v", small)
		}
	}
	if small[len(small)-1] != 3 {
		t.Fatalf("last size must equal total: %v", small)
	}
	if CurveSizes(0, 5, 1, false) != nil {
		t.Fatalf("expected no sizes for empty training set")
	}
}

func TestWriteCurveCSVAndPNG(t *testing.T) {
	var c Curve
	c.Add(10, 0.9, 0.7, 0.85, 0.6)
	c.Add(20, 0.88, 0.75, 0.84, 0.66)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "curve", "learning_curve.csv")
	if err := WriteCurveCSV(csvPath, &c); err != nil {
		t.Fatalf("WriteCurveCSV: %v", err)
	}
	tbl, err := data.ReadCSV(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tbl.Header, CurveHeader) || tbl.Len() != 2 || tbl.Rows[1][2] != "0.750000" {
		t.Fatalf("unexpected curve csv: %v %v", tbl.Header, tbl.Rows)
	}
	pngPath := filepath.Join(dir, "img", "learning_curve.png")
	if err := PlotCurvePNG(pngPath, &c); err != nil {
		t.Fatalf("PlotCurvePNG: %v", err)
	}
	if st, err := os.Stat(pngPath); err != nil || st.Size() == 0 {
		t.Fatalf("png not written: %v", err)
	}
}
