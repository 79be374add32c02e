package main

import (
	"os"

	"github.com/annotatex/annotatex/pkg/api"
	"github.com/annotatex/annotatex/pkg/app"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func main() {
	viper.SetDefault("http.port", "8080")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("directory.output", "./exports")
	viper.SetDefault("export.jpeg_quality", 90)

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			zerolog.New(os.Stderr).Fatal().Err(err).Msg("could not read config file")
		}
	}

	level, err := zerolog.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	outputDir := viper.GetString("directory.output")
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			log.Error().Err(err).Str("dir", outputDir).Msg("could not create output directory")
		}
	}

	a := app.New(log)
	a.SetJPEGQuality(viper.GetInt("export.jpeg_quality"))
	r := api.SetRouter(a, log)

	port := viper.GetString("http.port")
	log.Info().Str("port", port).Msg("annotation server listening")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
