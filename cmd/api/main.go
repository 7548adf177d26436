package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"titanic/internal/api"
	"titanic/internal/config"
	"titanic/internal/models"
	"titanic/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	rt, err := config.LoadRuntime()
	if err != nil {
		logger.Fatal("Configuração inválida", zap.Error(err))
	}
	modelDir := flag.String("model-dir", rt.Paths.ModelDir, "Diretório do artefato treinado")
	port := flag.String("port", rt.Port, "Porta HTTP")
	impute := flag.String("impute", rt.ImputeMode, "Imputação: batch|train")
	flag.Parse()
	rt.ImputeMode = *impute
	rt.Port = *port
	if err := rt.Validate(); err != nil {
		logger.Fatal("Configuração inválida", zap.Error(err))
	}

	art, err := models.LoadArtifact(*modelDir)
	if err != nil {
		logger.Fatal("Falha ao carregar modelo", zap.String("path", *modelDir), zap.Error(err))
	}
	logger.Info("Modelo carregado", zap.String("model", art.Model.Name()), zap.Time("treinado_em", art.CreatedAt))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	r := api.NewRouter(art, api.Options{APIKey: rt.APIKey, UseTrainingStats: rt.UseTrainingStats()}, logger)
	if err := api.Serve(ctx, ":"+rt.Port, r, logger); err != nil {
		logger.Fatal("Falha no servidor", zap.Error(err))
	}
}
