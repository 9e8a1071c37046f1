// Package main provides the voxrec CLI: write, count, inspect and batch
// TFRecord files of serialized tensors.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/born-ml/voxrec/internal/config"
	"github.com/born-ml/voxrec/internal/logging"
)

const version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// command is one subcommand. It receives the loaded config, the remaining
// positional arguments and the output streams.
type command struct {
	name  string
	usage string
	run   func(ctx context.Context, env *env, args []string) error
}

// env is the per-invocation state shared by the subcommands.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	limit  int
}

var commands = []command{
	{"write", "write num_examples constant-filled examples to data_path", cmdWrite},
	{"count", "print the record count of each file (default: the configured files)", cmdCount},
	{"inspect", "print the features of the first examples", cmdInspect},
	{"batches", "run the input pipeline and print batch shapes", cmdBatches},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	name, args := args[0], args[1:]
	switch name {
	case "version", "-version", "--version":
		_, _ = fmt.Fprintf(stdout, "voxrec %s\n", version)
		return 0
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)
		return 2
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o overrides
	o.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "voxrec: %v\n", err)
		return 1
	}
	if err := o.apply(fs, cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "voxrec: %v\n", err)
		return 1
	}

	logger, err := logging.New(stderr, cfg.LogOptions())
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "voxrec: %v\n", err)
		return 1
	}
	logger = logging.Component(logger, name)

	if err := cmd.run(ctx, &env{cfg: cfg, log: logger, stdout: stdout, limit: o.limit}, fs.Args()); err != nil {
		logger.Error("command failed", "err", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "voxrec %s - TFRecord tensor datasets\n\n", version)
	_, _ = fmt.Fprintf(w, "Usage: voxrec <command> [-config file.yaml] [flags] [files...]\n\nCommands:\n")
	for _, c := range commands {
		_, _ = fmt.Fprintf(w, "  %-9s %s\n", c.name, c.usage)
	}
	_, _ = fmt.Fprintf(w, "  %-9s %s\n", "version", "show version")
	_, _ = fmt.Fprintf(w, "\nRun 'voxrec <command> -h' for the flags of a command.\n")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// overrides are the command line flags that replace config values.
type overrides struct {
	configPath  string
	dataPath    string
	compression string
	numExamples int
	shards      int
	batchSize   int
	shuffle     int
	seed        uint64
	limit       int
	logLevel    string
}

func (o *overrides) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to configuration file (YAML)")
	fs.StringVar(&o.dataPath, "data", "", "record file path, overrides data_path")
	fs.StringVar(&o.compression, "compression", "", "none, gzip, zlib or s2")
	fs.IntVar(&o.numExamples, "n", 0, "number of examples to write")
	fs.IntVar(&o.shards, "shards", 0, "number of shard files")
	fs.IntVar(&o.batchSize, "batch", 0, "batch size")
	fs.IntVar(&o.shuffle, "shuffle", 0, "shuffle buffer size")
	fs.Uint64Var(&o.seed, "seed", 0, "shuffle seed")
	fs.IntVar(&o.limit, "limit", 3, "inspect: number of examples to print; batches: max batches (0 = all)")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error")
}

// apply copies the flags that were set onto cfg and validates the result.
func (o *overrides) apply(fs *flag.FlagSet, cfg *config.Config) error {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataPath = o.dataPath
		case "compression":
			cfg.Compression = o.compression
		case "n":
			cfg.NumExamples = o.numExamples
		case "shards":
			cfg.Shards = o.shards
		case "batch":
			cfg.BatchSize = o.batchSize
		case "shuffle":
			cfg.ShuffleBuffer = o.shuffle
		case "seed":
			cfg.Seed = o.seed
		case "log-level":
			cfg.Log.Level = o.logLevel
		}
	})
	return cfg.Validate()
}
