// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted indicates the user cancelled the prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// ErrPasswordMismatch indicates the confirmation did not match.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Password prompts for a masked password input.
func Password(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}

	result, err := p.Run()
	return result, wrapError(err)
}

// NewPassword prompts for a new password twice and verifies both entries
// match. Enforces the account minimum of 8 characters.
func NewPassword() (string, error) {
	p := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			return nil
		},
	}

	password, err := p.Run()
	if err != nil {
		return "", wrapError(err)
	}

	confirm, err := Password("Confirm password")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", ErrPasswordMismatch
	}

	return password, nil
}

// Confirm prompts for yes/no confirmation. A "n" answer returns false
// without an error.
func Confirm(label string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}

	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, hint),
		IsConfirm: true,
	}

	result, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, ErrAborted
		}
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if result == "" {
			return defaultYes, nil
		}
		return false, err
	}

	answer := strings.ToLower(result)
	return answer == "y" || answer == "yes", nil
}

func wrapError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		return ErrAborted
	}
	return err
}
