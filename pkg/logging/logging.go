package logging

import (
	"go.uber.org/zap"
)

// Setup builds the process logger and installs it as zap's global. Debug
// mode uses the development config at debug level. Otherwise a production
// config capped at warn keeps the console clean for search output: matches
// and notices own stdout/stderr, the logger only speaks up for trouble.
func Setup(debug bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	// Stamped on every entry.
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
