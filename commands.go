package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/trivernis/pngmsg/internal/logger"
	"github.com/trivernis/pngmsg/internal/png"
)

type encodeCmd struct {
	File       string `arg:"" help:"PNG file to read."`
	Chunk      string `arg:"" help:"Chunk type, 4 ASCII letters."`
	Message    string `arg:"" help:"Message to store."`
	Output     string `arg:"" optional:"" help:"Where to write the result. Without it the result is only printed."`
	BeforeIEND bool   `name:"before-iend" help:"Insert the chunk before IEND instead of appending it."`
	Force      bool   `help:"Overwrite the output file if it exists."`
}

func (cmd *encodeCmd) Run(a *app) error {
	p, err := readPng(cmd.File)
	if err != nil {
		return err
	}

	t, err := png.ParseChunkType(cmd.Chunk)
	if err != nil {
		return err
	}
	if !t.IsValid() {
		a.log.Log(logger.Warn, "chunk type %s is not a valid PNG chunk type", t)
	} else if t.IsCritical() {
		a.log.Log(logger.Warn, "chunk type %s is critical, PNG readers will refuse the file", t)
	}

	c := png.NewChunk(t, []byte(cmd.Message))
	if cmd.BeforeIEND {
		if err := p.InsertChunkBefore("IEND", c); err != nil {
			a.log.Log(logger.Warn, "no IEND chunk, appending")
			p.AppendChunk(c)
		}
	} else {
		p.AppendChunk(c)
	}

	if cmd.Output != "" {
		if err := writeFile(cmd.Output, p.Bytes(), cmd.Force); err != nil {
			return err
		}
		a.log.Log(logger.Info, "wrote %s with %d chunks", cmd.Output, p.Len())
	}

	fmt.Fprint(a.stdout, p)
	return nil
}

type decodeCmd struct {
	File  string `arg:"" help:"PNG file to read."`
	Chunk string `arg:"" help:"Chunk type to decode."`
}

func (cmd *decodeCmd) Run(a *app) error {
	p, err := readPng(cmd.File)
	if err != nil {
		return err
	}

	c, err := p.ChunkByType(cmd.Chunk)
	if err != nil {
		return err
	}

	text, err := c.Text()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, text)
	return nil
}

type removeCmd struct {
	File  string `arg:"" help:"PNG file to rewrite."`
	Chunk string `arg:"" help:"Chunk type to remove."`
}

func (cmd *removeCmd) Run(a *app) error {
	p, err := readPng(cmd.File)
	if err != nil {
		return err
	}

	c, err := p.RemoveChunkByType(cmd.Chunk)
	if err != nil {
		return err
	}

	if err := os.WriteFile(cmd.File, p.Bytes(), 0o644); err != nil {
		return err
	}

	a.log.Log(logger.Info, "removed %s from %s", c, cmd.File)
	return nil
}

type printCmd struct {
	File string `arg:"" help:"PNG file to read."`
}

func (cmd *printCmd) Run(a *app) error {
	p, err := readPng(cmd.File)
	if err != nil {
		if errors.Is(err, png.ErrCRCMismatch) {
			a.log.Log(logger.Warn, "file is corrupted or was tampered with")
		}
		return err
	}

	fmt.Fprint(a.stdout, p)
	return nil
}
