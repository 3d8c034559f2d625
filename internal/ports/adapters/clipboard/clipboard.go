package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

// WriteAll replaces the system clipboard contents with text.
func (Adapter) WriteAll(text string) error {
	if text == "" {
		return errors.New("nothing to copy to clipboard")
	}
	if clipboard.Unsupported {
		return errors.New("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}
