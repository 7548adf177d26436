// Command entrypoint is the container entry point. The platform starts it as
// "train" for training jobs and "serve" for transform jobs.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"titanic/internal/api"
	"titanic/internal/config"
	"titanic/internal/models"
	"titanic/internal/pipeline"
	"titanic/pkg/utils"
)

const (
	modeTrain     = "train"
	modeInference = "inference"
	modeServe     = "serve"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	rt, err := config.LoadRuntime()
	if err != nil {
		logger.Fatal("Configuração inválida", zap.Error(err))
	}
	modeFlag := flag.String("mode", "", "Modo: train|inference|serve")
	flag.Parse()

	mode := resolveMode(*modeFlag, flag.Args(), rt.Mode)
	logger.Info("Iniciando", zap.String("mode", mode), zap.String("environment", rt.Environment))

	switch mode {
	case modeTrain:
		opts := pipeline.DefaultTrainOptions()
		opts.Algo = rt.Algo
		if rt.Environment == config.EnvCloud {
			hp, err := config.ReadHyperParameters(config.HyperParametersFile)
			if err != nil {
				logger.Fatal("Falha ao ler hiperparâmetros", zap.Error(err))
			}
			if opts, err = opts.WithHyperParameters(hp); err != nil {
				logger.Fatal("Hiperparâmetros inválidos", zap.Error(err))
			}
		}
		if _, _, err := pipeline.RunTraining(rt, opts, logger); err != nil {
			logger.Fatal("Falha no treino", zap.Error(err))
		}
	case modeInference:
		if _, _, err := pipeline.RunInference(rt, logger); err != nil {
			logger.Fatal("Falha na inferência", zap.Error(err))
		}
	case modeServe:
		art, err := models.LoadArtifact(rt.Paths.ModelDir)
		if err != nil {
			logger.Fatal("Falha ao carregar modelo", zap.Error(err))
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		r := api.NewRouter(art, api.Options{APIKey: rt.APIKey, UseTrainingStats: rt.UseTrainingStats()}, logger)
		if err := api.Serve(ctx, ":"+rt.Port, r, logger); err != nil {
			logger.Fatal("Falha no servidor", zap.Error(err))
		}
	default:
		logger.Fatal("Modo inválido (use train|inference|serve)", zap.String("mode", mode))
	}
}

// resolveMode prefers the -mode flag, then the first positional argument,
// then the MODE environment variable.
func resolveMode(flagMode string, args []string, envMode string) string {
	switch {
	case flagMode != "":
		return strings.ToLower(flagMode)
	case len(args) > 0:
		return strings.ToLower(args[0])
	default:
		return envMode
	}
}
