package platform

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"go.uber.org/zap"

	"titanic/internal/config"
)

//go:generate mockgen -destination=mock_jobs_test.go -package=platform . JobAPI

// JobAPI is the subset of the SageMaker client used to submit jobs.
type JobAPI interface {
	CreateTrainingJobWithContext(aws.Context, *sagemaker.CreateTrainingJobInput, ...request.Option) (*sagemaker.CreateTrainingJobOutput, error)
	CreateTransformJobWithContext(aws.Context, *sagemaker.CreateTransformJobInput, ...request.Option) (*sagemaker.CreateTransformJobOutput, error)
	CreateModelWithContext(aws.Context, *sagemaker.CreateModelInput, ...request.Option) (*sagemaker.CreateModelOutput, error)
}

// Job identifies a submitted job or registered model.
type Job struct {
	Name string
	ARN  string
}

// Submitter sends training, transform and model registration requests. It
// does not wait for jobs to finish and never retries.
type Submitter struct {
	api    JobAPI
	cfg    config.Platform
	logger *zap.Logger
	now    func() time.Time
}

func NewSageMakerClient(cfg config.Platform) (*sagemaker.SageMaker, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("criar sessão AWS: %w", err)
	}
	return sagemaker.New(sess), nil
}

func NewSubmitter(api JobAPI, cfg config.Platform, logger *zap.Logger) *Submitter {
	return &Submitter{api: api, cfg: cfg, logger: logger, now: time.Now}
}

// JobName appends a UTC timestamp to prefix so repeated submissions do not collide.
func JobName(prefix string, t time.Time) string {
	return prefix + "-" + t.UTC().Format("20060102150405")
}

// ModelDataURL is where the platform stores the model tarball of a finished training job.
func ModelDataURL(cfg config.Platform, trainingJobName string) string {
	return strings.TrimSuffix(cfg.OutputURI, "/") + "/" + trainingJobName + "/output/model.tar.gz"
}

func (s *Submitter) StartTrainingJob(ctx context.Context) (Job, error) {
	name := JobName(s.cfg.TrainingJobPrefix, s.now())
	out, err := s.api.CreateTrainingJobWithContext(ctx, TrainingJobRequest(s.cfg, name))
	if err != nil {
		return Job{Name: name}, fmt.Errorf("criar training job %s: %w", name, err)
	}
	job := Job{Name: name, ARN: aws.StringValue(out.TrainingJobArn)}
	s.logger.Info("Training job criado", zap.String("job", job.Name), zap.String("arn", job.ARN))
	return job, nil
}

func (s *Submitter) StartTransformJob(ctx context.Context) (Job, error) {
	name := JobName(s.cfg.TransformJobPrefix, s.now())
	out, err := s.api.CreateTransformJobWithContext(ctx, TransformJobRequest(s.cfg, name))
	if err != nil {
		return Job{Name: name}, fmt.Errorf("criar transform job %s: %w", name, err)
	}
	job := Job{Name: name, ARN: aws.StringValue(out.TransformJobArn)}
	s.logger.Info("Transform job criado", zap.String("job", job.Name), zap.String("arn", job.ARN))
	return job, nil
}

// RegisterModel creates the platform model pointing at modelDataURL, falling
// back to the configured model_data_url.
func (s *Submitter) RegisterModel(ctx context.Context, modelDataURL string) (Job, error) {
	if modelDataURL == "" {
		modelDataURL = s.cfg.ModelDataURL
	}
	if modelDataURL == "" {
		return Job{}, fmt.Errorf("model_data_url não informado para o modelo %s", s.cfg.ModelName)
	}
	out, err := s.api.CreateModelWithContext(ctx, ModelRequest(s.cfg, modelDataURL))
	if err != nil {
		return Job{Name: s.cfg.ModelName}, fmt.Errorf("registrar modelo %s: %w", s.cfg.ModelName, err)
	}
	job := Job{Name: s.cfg.ModelName, ARN: aws.StringValue(out.ModelArn)}
	s.logger.Info("Modelo registrado", zap.String("model", job.Name), zap.String("arn", job.ARN), zap.String("model_data_url", modelDataURL))
	return job, nil
}

func TrainingJobRequest(cfg config.Platform, name string) *sagemaker.CreateTrainingJobInput {
	return &sagemaker.CreateTrainingJobInput{
		TrainingJobName: aws.String(name),
		AlgorithmSpecification: &sagemaker.AlgorithmSpecification{
			TrainingImage:     aws.String(cfg.Image),
			TrainingInputMode: aws.String(sagemaker.TrainingInputModeFile),
		},
		RoleArn: aws.String(cfg.RoleARN),
		InputDataConfig: []*sagemaker.Channel{{
			ChannelName: aws.String("train"),
			DataSource: &sagemaker.DataSource{
				S3DataSource: &sagemaker.S3DataSource{
					S3DataType:             aws.String(sagemaker.S3DataTypeS3prefix),
					S3Uri:                  aws.String(cfg.TrainInputURI),
					S3DataDistributionType: aws.String(sagemaker.S3DataDistributionFullyReplicated),
				},
			},
			ContentType: aws.String("text/csv"),
			InputMode:   aws.String(sagemaker.TrainingInputModeFile),
		}},
		OutputDataConfig: &sagemaker.OutputDataConfig{S3OutputPath: aws.String(cfg.OutputURI)},
		ResourceConfig: &sagemaker.ResourceConfig{
			InstanceType:   aws.String(cfg.InstanceType),
			InstanceCount:  aws.Int64(cfg.InstanceCount),
			VolumeSizeInGB: aws.Int64(cfg.VolumeSizeGB),
		},
		StoppingCondition: &sagemaker.StoppingCondition{MaxRuntimeInSeconds: aws.Int64(cfg.MaxRuntimeSeconds)},
		HyperParameters:   map[string]*string{"n_estimators": aws.String(strconv.Itoa(cfg.NEstimators))},
		Environment:       aws.StringMap(cfg.ContainerEnv),
		Tags:              tags(cfg.Tags),
	}
}

func TransformJobRequest(cfg config.Platform, name string) *sagemaker.CreateTransformJobInput {
	return &sagemaker.CreateTransformJobInput{
		TransformJobName:        aws.String(name),
		ModelName:               aws.String(cfg.ModelName),
		MaxConcurrentTransforms: aws.Int64(cfg.MaxConcurrentTransforms),
		MaxPayloadInMB:          aws.Int64(cfg.MaxPayloadMB),
		BatchStrategy:           aws.String(sagemaker.BatchStrategySingleRecord),
		TransformInput: &sagemaker.TransformInput{
			DataSource: &sagemaker.TransformDataSource{
				S3DataSource: &sagemaker.TransformS3DataSource{
					S3DataType: aws.String(sagemaker.S3DataTypeS3prefix),
					S3Uri:      aws.String(cfg.TestInputURI),
				},
			},
			ContentType: aws.String("text/csv"),
			SplitType:   aws.String(sagemaker.SplitTypeLine),
		},
		TransformOutput: &sagemaker.TransformOutput{
			S3OutputPath: aws.String(cfg.OutputURI),
			Accept:       aws.String("text/csv"),
			AssembleWith: aws.String(sagemaker.AssemblyTypeLine),
		},
		TransformResources: &sagemaker.TransformResources{
			InstanceType:  aws.String(cfg.InstanceType),
			InstanceCount: aws.Int64(cfg.InstanceCount),
		},
		Tags: tags(cfg.Tags),
	}
}

func ModelRequest(cfg config.Platform, modelDataURL string) *sagemaker.CreateModelInput {
	return &sagemaker.CreateModelInput{
		ModelName: aws.String(cfg.ModelName),
		PrimaryContainer: &sagemaker.ContainerDefinition{
			Image:        aws.String(cfg.Image),
			ModelDataUrl: aws.String(modelDataURL),
			Environment:  aws.StringMap(cfg.ContainerEnv),
		},
		ExecutionRoleArn: aws.String(cfg.RoleARN),
		Tags:             tags(cfg.Tags),
	}
}

func tags(m map[string]string) []*sagemaker.Tag {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*sagemaker.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, &sagemaker.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}
