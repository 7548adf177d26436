// Command orchestrator submits jobs to the managed ML platform and stages
// local data in object storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"titanic/internal/config"
	"titanic/internal/platform"
	"titanic/internal/storage"
	"titanic/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	mode := flag.String("mode", "", "Modo: train|inference|register|upload")
	cfgPath := flag.String("config", "", "Arquivo YAML com a configuração da plataforma")
	modelDataURL := flag.String("model-data-url", "", "URL S3 do model.tar.gz (register)")
	trainingJob := flag.String("training-job", "", "Nome do training job cujo modelo será registrado")
	flag.Parse()

	cfg, err := config.LoadPlatform(*cfgPath)
	if err != nil {
		logger.Fatal("Configuração da plataforma inválida", zap.Error(err))
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *mode == "upload" {
		rt, err := config.LoadRuntime()
		if err != nil {
			logger.Fatal("Configuração inválida", zap.Error(err))
		}
		if err := upload(ctx, cfg, rt, logger); err != nil {
			logger.Fatal("Falha no upload", zap.Error(err))
		}
		return
	}

	client, err := platform.NewSageMakerClient(cfg)
	if err != nil {
		logger.Fatal("Falha ao criar cliente", zap.Error(err))
	}
	sub := platform.NewSubmitter(client, cfg, logger)

	var job platform.Job
	switch *mode {
	case "train":
		job, err = sub.StartTrainingJob(ctx)
	case "inference":
		job, err = sub.StartTransformJob(ctx)
	case "register":
		url := *modelDataURL
		if url == "" && *trainingJob != "" {
			url = platform.ModelDataURL(cfg, *trainingJob)
		}
		job, err = sub.RegisterModel(ctx, url)
	default:
		flag.Usage()
		logger.Fatal("Modo inválido", zap.String("mode", *mode))
	}
	if err != nil {
		logger.Fatal("Falha na submissão", zap.String("mode", *mode), zap.Error(err))
	}
	fmt.Println(job.Name, job.ARN)
}

// upload stages the local train and test CSVs under the configured input prefixes.
func upload(ctx context.Context, cfg config.Platform, rt config.Runtime, logger *zap.Logger) error {
	for _, f := range []struct{ uri, local string }{
		{cfg.TrainInputURI, rt.Paths.TrainCSV()},
		{cfg.TestInputURI, rt.Paths.TestCSV()},
	} {
		store, err := storage.Open(f.uri, cfg.Region)
		if err != nil {
			return err
		}
		key := filepath.Base(f.local)
		if err := storage.UploadFile(ctx, store, key, f.local); err != nil {
			return err
		}
		logger.Info("Arquivo enviado", zap.String("local", f.local), zap.String("destino", f.uri+"/"+key))
	}
	return nil
}
