package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	EnvLocal = "local"
	EnvCloud = "cloud"

	ImputeBatch = "batch"
	ImputeTrain = "train"

	TrainFile       = "train.csv"
	TestFile        = "test.csv"
	PredictionsFile = "predictions.csv"
)

// Paths are the directory roots of one environment.
type Paths struct {
	TrainDir  string
	TestDir   string
	ModelDir  string
	OutputDir string
}

var (
	localPaths = Paths{TrainDir: "data/train", TestDir: "data/test", ModelDir: "output", OutputDir: "output"}
	cloudPaths = Paths{
		TrainDir:  "/opt/ml/input/data/train",
		TestDir:   "/opt/ml/input/data/test",
		ModelDir:  "/opt/ml/model",
		OutputDir: "/opt/ml/output",
	}
)

func (p Paths) TrainCSV() string       { return filepath.Join(p.TrainDir, TrainFile) }
func (p Paths) TestCSV() string        { return filepath.Join(p.TestDir, TestFile) }
func (p Paths) PredictionsCSV() string { return filepath.Join(p.OutputDir, PredictionsFile) }

// Runtime is the environment-dependent configuration, resolved once at
// process start and passed down. Command flags override individual fields.
type Runtime struct {
	Environment string `validate:"oneof=local cloud"`
	Paths       Paths
	ImputeMode  string `validate:"oneof=batch train"`
	Algo        string `validate:"oneof=rf dt gb"`
	Port        string `validate:"required,numeric"`
	APIKey      string
	Mode        string
}

// LoadRuntime reads ENVIRONMENT, IMPUTE_MODE, MODEL_ALGO, PORT, API_KEY and MODE.
// Any ENVIRONMENT other than "local" selects the cloud container layout.
func LoadRuntime() (Runtime, error) {
	return runtimeFrom(os.Getenv)
}

func runtimeFrom(getenv func(string) string) (Runtime, error) {
	rt := Runtime{
		Environment: EnvLocal,
		Paths:       localPaths,
		ImputeMode:  ImputeBatch,
		Algo:        "rf",
		Port:        "8080",
		APIKey:      getenv("API_KEY"),
		Mode:        strings.ToLower(strings.TrimSpace(getenv("MODE"))),
	}
	if env := strings.TrimSpace(getenv("ENVIRONMENT")); env != "" && !strings.EqualFold(env, EnvLocal) {
		rt.Environment = EnvCloud
		rt.Paths = cloudPaths
	}
	if v := strings.ToLower(strings.TrimSpace(getenv("IMPUTE_MODE"))); v != "" {
		rt.ImputeMode = v
	}
	if v := strings.ToLower(strings.TrimSpace(getenv("MODEL_ALGO"))); v != "" {
		rt.Algo = v
	}
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		rt.Port = v
	}
	return rt, rt.Validate()
}

func (rt Runtime) Validate() error {
	return validate.Struct(rt)
}

// UseTrainingStats reports whether inference should impute with the
// statistics captured at training time instead of the batch's own.
func (rt Runtime) UseTrainingStats() bool { return rt.ImputeMode == ImputeTrain }

var validate = validator.New()
