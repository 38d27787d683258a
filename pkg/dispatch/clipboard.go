package dispatch

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteText implements Clipboard.
func (SystemClipboard) WriteText(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrClipboard
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboard, err)
	}
	return nil
}
