// Command pngmsg hides messages inside PNG files.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/trivernis/pngmsg/internal/conf"
	"github.com/trivernis/pngmsg/internal/logger"
)

var version = "v0.0.0"

type cli struct {
	Config   string           `help:"path to a config file. The default is pngmsg.yml when present."`
	LogLevel string           `help:"log level (error, warn, info, debug); overrides the config file."`
	Version  kong.VersionFlag `help:"print version"`

	Encode encodeCmd `cmd:"" help:"Append a message chunk to a PNG file."`
	Decode decodeCmd `cmd:"" help:"Print the message stored in a chunk."`
	Remove removeCmd `cmd:"" help:"Remove the first chunk of a type and rewrite the file."`
	Print  printCmd  `cmd:"" help:"Print the chunks of a PNG file."`
	Seal   sealCmd   `cmd:"" help:"Store a file inside a PNG, optionally compressed and encrypted."`
	Unseal unsealCmd `cmd:"" help:"Extract a file stored with seal."`
	Strip  stripCmd  `cmd:"" help:"Remove a sealed payload from a PNG file."`
}

// app is handed to every command.
type app struct {
	conf   *conf.Conf
	log    *logger.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var c cli
	exitCode := -1

	parser, err := kong.New(&c,
		kong.Name("pngmsg"),
		kong.Description("pngmsg "+version),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }))
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Info, stderr)

	ctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		log.Log(logger.Error, "%s", err)
		return 1
	}

	cnf, err := conf.Load(c.Config)
	if err != nil {
		log.Log(logger.Error, "%s", err)
		return 1
	}

	if c.LogLevel != "" {
		cnf.LogLevel, err = conf.ParseLogLevel(c.LogLevel)
		if err != nil {
			log.Log(logger.Error, "%s", err)
			return 1
		}
	}
	log.SetLevel(logger.Level(cnf.LogLevel))

	a := &app{
		conf:   cnf,
		log:    log,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	err = ctx.Run(a)
	if err != nil {
		log.Log(logger.Error, "%s", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
