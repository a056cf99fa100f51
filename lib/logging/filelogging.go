package logging

import (
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

// Logger returns a lecho logger writing to STDOUT, or to a dated log file
// when a file path is configured.
func Logger(logFilePath string) *lecho.Logger {
	logger := lecho.New(
		os.Stdout,
		lecho.WithLevel(log.INFO),
		lecho.WithTimestamp(),
	)
	if logFilePath != "" {
		file, err := openLoggingFile(logFilePath)
		if err != nil {
			logger.Errorf("failed to open logging file: %v", err)
			return logger
		}
		logger.SetOutput(file)
	}

	return logger
}

func openLoggingFile(path string) (*os.File, error) {
	if filepath.Ext(path) == "" {
		path = path + time.Now().Format("-2006-01-02") + ".log"
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
}
