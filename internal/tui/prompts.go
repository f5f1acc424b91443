package tui

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// ErrInteractiveDisabled is returned when interactive prompts are disabled via HEDGE_TEST_NO_INTERACTIVE
var ErrInteractiveDisabled = fmt.Errorf("interactive prompts are disabled (HEDGE_TEST_NO_INTERACTIVE is set)")

// checkInteractiveAllowed returns an error if interactive mode is unavailable.
// Non-terminal stdin counts as unavailable, so piped invocations fail
// closed instead of hanging on a prompt.
func checkInteractiveAllowed() error {
	if os.Getenv("HEDGE_TEST_NO_INTERACTIVE") != "" {
		return ErrInteractiveDisabled
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("stdin is not a terminal; rerun with --yes or the matching --force flag")
	}
	return nil
}

// PromptConfirm asks a yes/no question, defaulting to no
func PromptConfirm(message string) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}

// PromptTextInput prompts the user for a line of text
func PromptTextInput(message, defaultValue string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}

	answer := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}
