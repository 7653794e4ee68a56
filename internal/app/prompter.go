// Where: internal/app/prompter.go
// What: Confirmation prompt used before stopping instances.
// Why: Require an explicit yes for interactive runs.
package app

import "github.com/charmbracelet/huh"

// Prompter asks the operator for confirmation.
type Prompter interface {
	Confirm(title string) (bool, error)
}

// HuhPrompter implements Prompter using the huh TUI library.
type HuhPrompter struct{}

func (HuhPrompter) Confirm(title string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Stop").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
