package utils

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const envFile = ".env"

func LoadEnv(logger *zap.Logger) {
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		logger.Info("No ENV file present, using process environment", zap.String("file", envFile))
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		logger.Warn("Failed to load ENV file, using process environment", zap.String("file", envFile), zap.Error(err))
		return
	}
	logger.Info("ENV file loaded", zap.String("file", envFile))
}
