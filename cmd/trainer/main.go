package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"titanic/internal/config"
	"titanic/internal/data"
	"titanic/internal/pipeline"
	"titanic/internal/report"
	"titanic/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	rt, err := config.LoadRuntime()
	if err != nil {
		logger.Fatal("Configuração inválida", zap.Error(err))
	}
	defaults := pipeline.DefaultTrainOptions()

	trainDir := flag.String("train", rt.Paths.TrainDir, "Diretório com train.csv")
	modelDir := flag.String("model-dir", rt.Paths.ModelDir, "Diretório de saída do artefato")
	algo := flag.String("algo", rt.Algo, "Algoritmo: rf|dt|gb")
	estimators := flag.Int("n-estimators", defaults.NEstimators, "Número de estimadores (rf/gb)")
	maxDepth := flag.Int("max-depth", 0, "Profundidade máxima da árvore (0 = sem limite)")
	minSamples := flag.Int("min-samples", 2, "Mínimo de amostras para split")
	lr := flag.Float64("lr", 0.1, "Learning rate para GradientBoosting")
	testSize := flag.Float64("test-size", defaults.TestSize, "Fração de validação")
	seed := flag.Int64("seed", defaults.Seed, "Semente do split e do modelo")
	regen := flag.Bool("regen", false, "Regenerar train.csv sintético antes de treinar")
	n := flag.Int("n", 891, "Número de passageiros sintéticos")
	curve := flag.Bool("curve", false, "Gerar curva de aprendizagem (PNG e CSV)")
	curvePoints := flag.Int("curve-points", 10, "Quantidade de pontos na curva")
	curveMin := flag.Int("curve-min", 50, "Tamanho mínimo inicial da curva")
	curveLog := flag.Bool("curve-log", true, "Usar escala logarítmica para os tamanhos")
	curveImg := flag.String("curve-out-img", "output/learning_curve.png", "PNG da curva")
	curveCsv := flag.String("curve-out-csv", "output/learning_curve.csv", "CSV da curva")
	flag.Parse()

	rt.Paths.TrainDir = *trainDir
	rt.Paths.ModelDir = *modelDir
	opts := pipeline.TrainOptions{
		Algo:            *algo,
		NEstimators:     *estimators,
		MaxDepth:        *maxDepth,
		MinSamplesSplit: *minSamples,
		LearningRate:    *lr,
		TestSize:        *testSize,
		Seed:            *seed,
	}
	if rt.Environment == config.EnvCloud {
		opts = applyPlatformHyperParameters(opts, logger)
	}

	if *regen {
		logger.Info("Gerando dataset sintético", zap.Int("n", *n), zap.String("out", rt.Paths.TrainCSV()))
		if err := data.WriteSyntheticPassengers(*n, *seed, rt.Paths.TrainCSV()); err != nil {
			logger.Fatal("Falha ao gerar dataset", zap.Error(err))
		}
	}

	res, path, err := pipeline.RunTraining(rt, opts, logger)
	if err != nil {
		logger.Fatal("Falha no treino", zap.Error(err))
	}
	fmt.Printf("Validation Accuracy: %.4f\n", res.Holdout.Accuracy)
	fmt.Println("Model saved to", path)

	if *curve {
		raw, err := data.ReadCSV(rt.Paths.TrainCSV())
		if err != nil {
			logger.Fatal("Falha ao ler CSV", zap.Error(err))
		}
		c, err := pipeline.LearningCurve(raw, opts, pipeline.CurveOptions{Points: *curvePoints, Min: *curveMin, Log: *curveLog}, logger)
		if err != nil {
			logger.Fatal("Falha ao calcular curva de aprendizagem", zap.Error(err))
		}
		if err := report.WriteCurveCSV(*curveCsv, c); err != nil {
			logger.Warn("Falha ao salvar CSV da curva", zap.Error(err))
		}
		if err := report.PlotCurvePNG(*curveImg, c); err != nil {
			logger.Warn("Falha ao salvar PNG da curva", zap.Error(err))
		} else {
			logger.Info("Curva de aprendizagem gerada", zap.String("png", *curveImg), zap.String("csv", *curveCsv))
		}
	}
}

// applyPlatformHyperParameters lets the training job's hyperparameters override
// options that were not set explicitly on the command line.
func applyPlatformHyperParameters(opts pipeline.TrainOptions, logger *zap.Logger) pipeline.TrainOptions {
	hp, err := config.ReadHyperParameters(config.HyperParametersFile)
	if err != nil {
		logger.Fatal("Falha ao ler hiperparâmetros", zap.Error(err))
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["n-estimators"] {
		delete(hp, "n_estimators")
	}
	if set["algo"] {
		delete(hp, "algo")
	}
	out, err := opts.WithHyperParameters(hp)
	if err != nil {
		logger.Fatal("Hiperparâmetros inválidos", zap.Error(err))
	}
	if len(hp) > 0 {
		logger.Info("Hiperparâmetros da plataforma aplicados", zap.Any("hyperparameters", hp))
	}
	return out
}
