package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"titanic/internal/config"
	"titanic/internal/pipeline"
	"titanic/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	rt, err := config.LoadRuntime()
	if err != nil {
		logger.Fatal("Configuração inválida", zap.Error(err))
	}
	testDir := flag.String("inference", rt.Paths.TestDir, "Diretório com test.csv")
	modelDir := flag.String("model-dir", rt.Paths.ModelDir, "Diretório do artefato treinado")
	outputDir := flag.String("output", rt.Paths.OutputDir, "Diretório de saída de predictions.csv")
	impute := flag.String("impute", rt.ImputeMode, "Imputação: batch (estatísticas do lote) | train (estatísticas do treino)")
	flag.Parse()

	rt.Paths.TestDir = *testDir
	rt.Paths.ModelDir = *modelDir
	rt.Paths.OutputDir = *outputDir
	rt.ImputeMode = *impute
	if err := rt.Validate(); err != nil {
		logger.Fatal("Configuração inválida", zap.Error(err))
	}

	_, path, err := pipeline.RunInference(rt, logger)
	if err != nil {
		logger.Fatal("Falha na inferência", zap.Error(err))
	}
	fmt.Println("Predictions saved to", path)
}
