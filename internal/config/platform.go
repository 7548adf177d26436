package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Platform gathers every constant of the managed ML platform jobs in one place.
type Platform struct {
	Region             string `yaml:"region" validate:"required"`
	RoleARN            string `yaml:"role_arn" validate:"required,startswith=arn:"`
	Image              string `yaml:"image" validate:"required"`
	ModelName          string `yaml:"model_name" validate:"required"`
	TrainingJobPrefix  string `yaml:"training_job_prefix" validate:"required"`
	TransformJobPrefix string `yaml:"transform_job_prefix" validate:"required"`

	TrainInputURI string `yaml:"train_input_uri" validate:"required,startswith=s3://"`
	TestInputURI  string `yaml:"test_input_uri" validate:"required,startswith=s3://"`
	OutputURI     string `yaml:"output_uri" validate:"required,startswith=s3://"`
	// ModelDataURL points at a finished training job's model.tar.gz. Register
	// derives it from the training job name when empty.
	ModelDataURL string `yaml:"model_data_url" validate:"omitempty,startswith=s3://"`

	InstanceType            string `yaml:"instance_type" validate:"required"`
	InstanceCount           int64  `yaml:"instance_count" validate:"gte=1"`
	VolumeSizeGB            int64  `yaml:"volume_size_gb" validate:"gte=1"`
	MaxRuntimeSeconds       int64  `yaml:"max_runtime_seconds" validate:"gte=1"`
	NEstimators             int    `yaml:"n_estimators" validate:"gte=1"`
	MaxPayloadMB            int64  `yaml:"max_payload_mb" validate:"gte=1,lte=100"`
	MaxConcurrentTransforms int64  `yaml:"max_concurrent_transforms" validate:"gte=1"`

	ContainerEnv map[string]string `yaml:"container_env"`
	Tags         map[string]string `yaml:"tags"`
}

func DefaultPlatform() Platform {
	return Platform{
		Region:                  "us-east-2",
		RoleARN:                 "arn:aws:iam::123456789012:role/titanic-sagemaker",
		Image:                   "123456789012.dkr.ecr.us-east-2.amazonaws.com/titanic-classifier:latest",
		ModelName:               "titanic-model",
		TrainingJobPrefix:       "titanic-training-job",
		TransformJobPrefix:      "titanic-transform-job",
		TrainInputURI:           "s3://titanic-mlops/data/train",
		TestInputURI:            "s3://titanic-mlops/data/test",
		OutputURI:               "s3://titanic-mlops/output",
		InstanceType:            "ml.m5.large",
		InstanceCount:           1,
		VolumeSizeGB:            50,
		MaxRuntimeSeconds:       3600,
		NEstimators:             100,
		MaxPayloadMB:            6,
		MaxConcurrentTransforms: 1,
		ContainerEnv:            map[string]string{"ENVIRONMENT": EnvCloud, "IMPUTE_MODE": ImputeTrain},
		Tags:                    map[string]string{"Project": "TitanicPrediction"},
	}
}

// LoadPlatform overlays the YAML file at path (optional) on the defaults,
// applies the AWS_REGION override and validates the result.
func LoadPlatform(path string) (Platform, error) {
	p := DefaultPlatform()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("ler configuração da plataforma: %w", err)
		}
		if err := yaml.Unmarshal(b, &p); err != nil {
			return p, fmt.Errorf("decodificar %s: %w", path, err)
		}
	}
	if r := os.Getenv("AWS_REGION"); r != "" {
		p.Region = r
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (p Platform) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("configuração da plataforma inválida: %w", err)
	}
	return nil
}
