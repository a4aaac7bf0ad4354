package logging

import (
	"io"
	"os"

	"github.com/op/go-logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/truthlens/proof-hub/config"
)

var Logger *logging.Logger

const logFormat = "%{time:2006-01-02 15:04:05.000} %{level:.4s} %{shortfile} %{message}"

// InitLogger sets up the global logger from LogConfig. Console and rotating
// file backends can be enabled independently.
func InitLogger(cfg *config.LogConfig) {
	Logger = logging.MustGetLogger("proof-hub")

	level, err := logging.LogLevel(cfg.Level)
	if err != nil {
		level = logging.INFO
	}

	var writers []io.Writer
	if cfg.UseConsoleLogger {
		writers = append(writers, os.Stdout)
	}
	if cfg.UseFileLogger {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxFileSizeInMB,
			MaxBackups: cfg.MaxBackupsOfLogFiles,
			MaxAge:     cfg.MaxAgeToRetainLogFilesInDays,
			Compress:   cfg.Compress,
		})
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	backend := logging.NewLogBackend(io.MultiWriter(writers...), "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(logFormat))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	Logger.SetBackend(leveled)
}
