package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-json"
)

// HyperParametersFile is where the training platform writes the job's
// hyperparameters inside the container.
const HyperParametersFile = "/opt/ml/input/config/hyperparameters.json"

// ReadHyperParameters decodes the platform's hyperparameters file. All values
// arrive as strings. A missing file yields an empty map.
func ReadHyperParameters(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	hp := map[string]string{}
	if err := json.Unmarshal(b, &hp); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", path, err)
	}
	return hp, nil
}
