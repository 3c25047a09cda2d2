package ui

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// ErrAborted is returned by ReadLine when the operator presses Ctrl+C at the
// prompt.
var ErrAborted = liner.ErrPromptAborted

// Input is the line editor for the prompt, with history persisted between
// sessions.
type Input struct {
	line        *liner.State
	historyFile string
}

// NewInput opens the line editor. An empty historyFile disables persistence.
func NewInput(historyFile string) *Input {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	in := &Input{line: line, historyFile: historyFile}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return in
}

// ReadLine prompts for one line. io.EOF means the input was closed.
func (in *Input) ReadLine() (string, error) {
	s, err := in.line.Prompt(promptStyle.Render("❯") + " ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrAborted
		}
		return "", err
	}
	if strings.TrimSpace(s) != "" {
		in.line.AppendHistory(s)
	}
	return s, nil
}

// Close saves history and restores the terminal.
func (in *Input) Close() error {
	if in.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(in.historyFile), 0o700); err == nil {
			if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
				_, _ = in.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	return in.line.Close()
}

// IsEOF reports whether err means the input stream ended.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
