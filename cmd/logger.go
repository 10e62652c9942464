package cmd

import (
	"os"

	"go.uber.org/zap"
)

// newLogger builds the process logger. ARKMENTOR_DEBUG=1 switches to
// development output with debug level enabled.
func newLogger() *zap.SugaredLogger {
	var log *zap.Logger
	var err error
	if os.Getenv("ARKMENTOR_DEBUG") == "1" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return log.Sugar()
}
