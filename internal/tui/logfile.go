package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If HEDGE_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.hedge/logs/hedge.log
func GetLogFilePath() string {
	if customPath := os.Getenv("HEDGE_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "hedge.log"
	}

	return filepath.Join(homeDir, ".hedge", "logs", "hedge.log")
}
