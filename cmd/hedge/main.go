package main

import (
	"errors"
	"os"

	"hedgerow.dev/hedge/internal/cli"
	hedgeerrors "hedgerow.dev/hedge/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes, stable for scripting
const (
	exitOK          = 0
	exitGeneric     = 1
	exitBlocked     = 2
	exitUnconfirmed = 3
	exitExecution   = 4
	exitRecovery    = 5
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitOK)
}

func exitCode(err error) int {
	var blockErr *hedgeerrors.SafetyBlockError
	var warnErr *hedgeerrors.SafetyWarnError
	var recoveryErr *hedgeerrors.RecoveryError
	var execErr *hedgeerrors.ExecutionError

	switch {
	case errors.As(err, &blockErr):
		return exitBlocked
	case errors.As(err, &warnErr):
		return exitUnconfirmed
	case errors.As(err, &recoveryErr):
		// Checked before ExecutionError: a failed rollback outranks the
		// step failure that triggered it
		return exitRecovery
	case errors.As(err, &execErr):
		return exitExecution
	}
	return exitGeneric
}
