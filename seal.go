package main

import (
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"

	"github.com/trivernis/pngmsg/internal/logger"
	"github.com/trivernis/pngmsg/internal/seal"
)

// PasswordFlags are shared by the commands that handle sealed payloads.
type PasswordFlags struct {
	Password    string `help:"Password used to encrypt or decrypt the payload." env:"PNGMSG_PASSWORD"`
	AskPassword bool   `short:"p" help:"Prompt for the password on the terminal."`
}

type sealCmd struct {
	File     string `arg:"" help:"PNG file to read."`
	Input    string `arg:"" help:"File to store, - for stdin."`
	Out      string `short:"o" default:"out.png" help:"Output PNG file."`
	Compress   bool   `xor:"compress" help:"Compress the payload with LZ4; overrides the config file."`
	NoCompress bool   `xor:"compress" help:"Store the payload uncompressed; overrides the config file."`
	Force      bool   `help:"Overwrite the output file if it exists."`

	PasswordFlags `embed:""`
}

type unsealCmd struct {
	File  string `arg:"" help:"PNG file to read."`
	Out   string `short:"o" default:"-" help:"Where to write the payload, - for stdout."`
	Force bool   `help:"Overwrite the output file if it exists."`

	PasswordFlags `embed:""`
}

type stripCmd struct {
	File string `arg:"" help:"PNG file to rewrite."`
}

// progress renders a progress bar once a payload spans more than one chunk.
type progress struct {
	a   *app
	bar *pb.ProgressBar
}

func (pr *progress) onChunk(done, total int) {
	if total < 2 {
		return
	}
	if pr.bar == nil {
		pr.bar = pb.New(total).SetWriter(pr.a.stderr).Start()
	}
	pr.bar.SetCurrent(int64(done))
}

func (pr *progress) finish() {
	if pr.bar != nil {
		pr.bar.Finish()
	}
}

func (a *app) sealOptions(pf PasswordFlags, confirm bool) (seal.Options, error) {
	opts := seal.Options{
		DataType:  a.conf.SealChunkType,
		SaltType:  a.conf.SaltChunkType,
		Compress:  a.conf.Compress,
		ChunkSize: a.conf.SealChunkSize,
		ScryptN:   a.conf.ScryptN,
		ScryptR:   a.conf.ScryptR,
		ScryptP:   a.conf.ScryptP,
		Password:  []byte(pf.Password),
	}

	if pf.AskPassword {
		pw, err := a.readPassword("Password: ")
		if err != nil {
			return seal.Options{}, err
		}

		if confirm {
			again, err := a.readPassword("Repeat password: ")
			if err != nil {
				return seal.Options{}, err
			}
			if string(again) != string(pw) {
				return seal.Options{}, fmt.Errorf("passwords do not match")
			}
		}

		opts.Password = pw
	}

	return opts, nil
}

func (cmd *sealCmd) Run(a *app) error {
	a.log.Log(logger.Debug, "reading image file %s", cmd.File)
	p, err := readPng(cmd.File)
	if err != nil {
		return err
	}

	a.log.Log(logger.Debug, "reading input file %s", cmd.Input)
	data, err := a.readInput(cmd.Input)
	if err != nil {
		return err
	}

	opts, err := a.sealOptions(cmd.PasswordFlags, true)
	if err != nil {
		return err
	}
	switch {
	case cmd.Compress:
		opts.Compress = true
	case cmd.NoCompress:
		opts.Compress = false
	}
	if len(opts.Password) == 0 {
		a.log.Log(logger.Warn, "no password given, the payload is stored unencrypted")
	}

	pr := &progress{a: a}
	opts.OnChunk = pr.onChunk

	n, err := seal.Seal(p, data, opts)
	pr.finish()
	if err != nil {
		return err
	}

	if err := writeFile(cmd.Out, p.Bytes(), cmd.Force); err != nil {
		return err
	}

	a.log.Log(logger.Info, "stored %d bytes in %d %s chunks of %s", len(data), n, opts.DataType, cmd.Out)
	return nil
}

func (cmd *unsealCmd) Run(a *app) error {
	p, err := readPng(cmd.File)
	if err != nil {
		return err
	}

	opts, err := a.sealOptions(cmd.PasswordFlags, false)
	if err != nil {
		return err
	}

	if len(opts.Password) != 0 && !seal.Encrypted(p, opts) {
		a.log.Log(logger.Warn, "password given but the payload is not encrypted")
	}

	pr := &progress{a: a}
	opts.OnChunk = pr.onChunk

	data, err := seal.Open(p, opts)
	pr.finish()
	if err != nil {
		return err
	}

	if cmd.Out == "-" {
		_, err = a.stdout.Write(data)
		return err
	}

	if err := writeFile(cmd.Out, data, cmd.Force); err != nil {
		return err
	}

	a.log.Log(logger.Info, "wrote %d bytes to %s", len(data), cmd.Out)
	return nil
}

func (cmd *stripCmd) Run(a *app) error {
	p, err := readPng(cmd.File)
	if err != nil {
		return err
	}

	n := seal.Strip(p, seal.Options{
		DataType: a.conf.SealChunkType,
		SaltType: a.conf.SaltChunkType,
	})
	if n == 0 {
		return seal.ErrNoPayload
	}

	if err := os.WriteFile(cmd.File, p.Bytes(), 0o644); err != nil {
		return err
	}

	a.log.Log(logger.Info, "removed %d chunks from %s", n, cmd.File)
	return nil
}
