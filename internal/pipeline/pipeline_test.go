package pipeline

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"titanic/internal/config"
	"titanic/internal/data"
	"titanic/internal/features"
	"titanic/internal/models"
)

const fixtureCSV = `PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked
1,0,3,"Braund, Mr. Owen Harris",male,22,1,0,A/5 21171,7.25,,S
2,1,1,"Cumings, Mrs. John Bradley (Florence Briggs Thayer)",female,38,1,0,PC 17599,71.2833,C85,C
3,1,3,"Heikkinen, Miss. Laina",female,26,0,0,STON/O2. 3101282,7.925,,S
4,1,1,"Futrelle, Mrs. Jacques Heath (Lily May Peel)",female,35,1,0,113803,53.1,C123,S
5,0,3,"Allen, Mr. William Henry",male,35,0,0,373450,8.05,,S
`

func parse(t *testing.T, s string) *data.Table {
	t.Helper()
	tbl, err := data.ParseCSV(strings.NewReader(s))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	return tbl
}

func fixtureOptions() TrainOptions {
	opts := DefaultTrainOptions()
	opts.NEstimators = 10
	return opts
}

func TestTrainFixture(t *testing.T) {
	res, err := Train(parse(t, fixtureCSV), fixtureOptions(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	art := res.Artifact
	rf, ok := art.Model.(*models.RandomForest)
	if !ok || len(rf.Trees) != 10 {
		t.Fatalf("expected a fitted forest of 10 trees, got %T", art.Model)
	}
	want := features.ColumnSchema{"Pclass", "Age", "SibSp", "Parch", "Fare", "Sex_male", "Embarked_S", "Cabin_U"}
	if !want.Equal(art.Columns) {
		t.Fatalf("columns = %v, want %v", art.Columns, want)
	}
	if res.TrainRows != 4 || res.HoldoutRows != 1 {
		t.Fatalf("split = %d/%d, want 4/1", res.TrainRows, res.HoldoutRows)
	}
	if art.Imputation.EmbarkedMode != "S" {
		t.Fatalf("imputation stats not captured: %+v", art.Imputation)
	}

	preds, err := Predict(parse(t, fixtureCSV), art, PredictOptions{})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(preds.Labels) != 5 {
		t.Fatalf("expected 5 predictions, got %d", len(preds.Labels))
	}
	for _, l := range preds.Labels {
		if l != 0 && l != 1 {
			t.Fatalf("label %d not in {0,1}", l)
		}
	}
	if !reflect.DeepEqual(preds.IDs, []string{"1", "2", "3", "4", "5"}) {
		t.Fatalf("ids = %v", preds.IDs)
	}
}

func TestPredictSingleRowUnseenBatch(t *testing.T) {
	res, err := Train(parse(t, fixtureCSV), fixtureOptions(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	raw := parse(t, `PassengerId,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked
892,3,"Kelly, Mr. James",male,34.5,0,0,330911,7.8292,,Q
`)
	preds, err := Predict(raw, res.Artifact, PredictOptions{})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(preds.Labels) != 1 || preds.IDs[0] != "892" {
		t.Fatalf("unexpected predictions: %+v", preds)
	}
}

func TestPredictWithTrainingStats(t *testing.T) {
	res, err := Train(parse(t, fixtureCSV), fixtureOptions(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	raw := parse(t, `PassengerId,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked
900,2,a,female,,0,0,t,,,
`)
	if _, err := Predict(raw, res.Artifact, PredictOptions{}); !errors.Is(err, features.ErrNoObservations) {
		t.Fatalf("expected ErrNoObservations with batch imputation, got %v", err)
	}
	preds, err := Predict(raw, res.Artifact, PredictOptions{UseTrainingStats: true})
	if err != nil {
		t.Fatalf("Predict with training stats: %v", err)
	}
	if len(preds.Labels) != 1 {
		t.Fatalf("expected one prediction, got %d", len(preds.Labels))
	}
}

func TestPredictRequiresPassengerID(t *testing.T) {
	res, err := Train(parse(t, fixtureCSV), fixtureOptions(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	raw := parse(t, "Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked\n3,a,male,30,0,0,t,8,,S\n")
	if _, err := Predict(raw, res.Artifact, PredictOptions{}); !errors.Is(err, features.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestTrainErrors(t *testing.T) {
	logger := zaptest.NewLogger(t)
	noLabel := parse(t, "PassengerId,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked\n1,3,a,male,22,1,0,t,7.25,,S\n2,1,b,female,38,1,0,t,71,C85,C\n")
	if _, err := Train(noLabel, DefaultTrainOptions(), logger); !errors.Is(err, ErrMissingLabel) {
		t.Fatalf("expected ErrMissingLabel, got %v", err)
	}
	oneRow := parse(t, "PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked\n1,0,3,a,male,22,1,0,t,7.25,,S\n")
	if _, err := Train(oneRow, DefaultTrainOptions(), logger); !errors.Is(err, ErrTooFewRows) {
		t.Fatalf("expected ErrTooFewRows, got %v", err)
	}
	badLabel := parse(t, "PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked\n1,2,3,a,male,22,1,0,t,7.25,,S\n2,0,1,b,female,38,1,0,t,71,C85,C\n")
	if _, err := Train(badLabel, DefaultTrainOptions(), logger); err == nil {
		t.Fatalf("expected error for label outside {0,1}")
	}
}

func TestSplitIndices(t *testing.T) {
	train, hold, err := SplitIndices(10, 0.2, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(train) != 8 || len(hold) != 2 {
		t.Fatalf("split = %d/%d", len(train), len(hold))
	}
	again, _, _ := SplitIndices(10, 0.2, 42)
	if !reflect.DeepEqual(train, again) {
		t.Fatalf("split is not deterministic for a fixed seed")
	}
	seen := map[int]bool{}
	for _, i := range append(append([]int(nil), train...), hold...) {
		if seen[i] {
			t.Fatalf("index %d appears twice", i)
		}
		seen[i] = true
	}
	if _, h, _ := SplitIndices(2, 0.2, 1); len(h) != 1 {
		t.Fatalf("two rows must hold out exactly one")
	}
	if _, _, err := SplitIndices(5, 1.5, 1); err == nil {
		t.Fatalf("expected error for invalid test size")
	}
}

func TestRunTrainingAndInference(t *testing.T) {
	dir := t.TempDir()
	rt := config.Runtime{
		Environment: config.EnvLocal,
		Paths: config.Paths{
			TrainDir:  filepath.Join(dir, "train"),
			TestDir:   filepath.Join(dir, "test"),
			ModelDir:  filepath.Join(dir, "model"),
			OutputDir: filepath.Join(dir, "out"),
		},
		ImputeMode: config.ImputeBatch,
	}
	passengers := data.GenerateSyntheticPassengers(60, 7)
	if err := data.WriteCSV(rt.Paths.TrainCSV(), data.PassengerTable(passengers)); err != nil {
		t.Fatal(err)
	}
	test := make([]data.Passenger, 0, 15)
	for _, p := range data.GenerateSyntheticPassengers(15, 8) {
		p.Survived = nil
		test = append(test, p)
	}
	if err := data.WriteCSV(rt.Paths.TestCSV(), data.PassengerTable(test)); err != nil {
		t.Fatal(err)
	}

	logger := zaptest.NewLogger(t)
	opts := DefaultTrainOptions()
	opts.NEstimators = 5
	if _, path, err := RunTraining(rt, opts, logger); err != nil {
		t.Fatalf("RunTraining: %v", err)
	} else if filepath.Base(path) != models.ArtifactFile {
		t.Fatalf("artifact path = %s", path)
	}
	preds, out, err := RunInference(rt, logger)
	if err != nil {
		t.Fatalf("RunInference: %v", err)
	}
	tbl, err := data.ReadCSV(out)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tbl.Header, PredictionsHeader) || tbl.Len() != 15 || len(preds.Labels) != 15 {
		t.Fatalf("unexpected predictions file: %v, %d rows", tbl.Header, tbl.Len())
	}
}

func TestLearningCurve(t *testing.T) {
	raw := data.PassengerTable(data.GenerateSyntheticPassengers(50, 3))
	opts := DefaultTrainOptions()
	opts.NEstimators = 3
	c, err := LearningCurve(raw, opts, CurveOptions{Points: 4, Min: 5}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("LearningCurve: %v", err)
	}
	if len(c.Sizes) == 0 || c.Sizes[len(c.Sizes)-1] != 40 {
		t.Fatalf("curve sizes = %v", c.Sizes)
	}
}

func TestWithHyperParameters(t *testing.T) {
	opts, err := DefaultTrainOptions().WithHyperParameters(map[string]string{"n_estimators": "250", "algo": "gb", "other": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.NEstimators != 250 || opts.Algo != "gb" || opts.Seed != 42 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if _, err := DefaultTrainOptions().WithHyperParameters(map[string]string{"n_estimators": "many"}); err == nil {
		t.Fatalf("expected error for non-integer n_estimators")
	}
}
