package tool

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// WriteClipboard places text on the system clipboard.
func WriteClipboard(text string) error {
	if text == "" {
		return fmt.Errorf("nothing to copy")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}
