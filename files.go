package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/trivernis/pngmsg/internal/png"
)

var errOutputExists = errors.New("output file exists, use --force to overwrite")

// readPng reads and parses a whole PNG file.
func readPng(path string) (*png.Png, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := png.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// writeFile writes data to path, refusing to replace an existing file unless force is set.
func writeFile(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", errOutputExists, path)
		}
	}

	return os.WriteFile(path, data, 0o644)
}

// readPassword reads a password from the terminal without echoing it.
func (a *app) readPassword(prompt string) ([]byte, error) {
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("cannot prompt for a password: stdin is not a terminal")
	}

	fmt.Fprint(a.stderr, prompt)
	pw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(a.stderr)
	if err != nil {
		return nil, err
	}

	return pw, nil
}

// readInput reads path, or stdin when path is "-".
func (a *app) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.stdin)
	}

	return os.ReadFile(path)
}
