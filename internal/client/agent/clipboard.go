// Package agent runs the local clipboard watch and sync loops.
package agent

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrPermission reports that the OS clipboard could not be accessed.
var ErrPermission = errors.New("clipboard access denied")

// Clipboard abstracts the OS clipboard so the coordinator can be tested
// without one.
type Clipboard interface {
	Read() (string, error)
	Write(content string) error
}

// SystemClipboard reads and writes the real OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Read() (string, error) {
	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPermission, err)
	}
	return content, nil
}

func (SystemClipboard) Write(content string) error {
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("%w: %v", ErrPermission, err)
	}
	return nil
}
