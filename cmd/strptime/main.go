package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	strptime "github.com/goliatone/go-strptime"
)

type option struct {
	Format    string   `description:"strftime style format the input was rendered with" long:"format" short:"f" required:"true"`
	Locale    string   `description:"locale to parse with (defaults to LC_ALL/LC_TIME/LANG)" long:"locale" short:"l"`
	Overrides []string `description:"JSON or YAML file with locale table overrides; repeatable" long:"overrides"`
	Zone      string   `description:"IANA time zone used to harvest timezone names" long:"zone" default:"Local"`
	Output    string   `description:"output format (json/tuple/rfc3339)" long:"output" short:"o" default:"json" choice:"json" choice:"tuple" choice:"rfc3339"`
	LogLevel  LogLevel `description:"specify the log level (debug/info/warn/error)" long:"log-level" default:"error"`
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

type exitCode int

const (
	exitOK       exitCode = 0
	exitError    exitCode = 1
	exitMismatch exitCode = 2
)

func main() {
	os.Exit(int(run()))
}

func run() exitCode {
	args, opt, err := parseOpt()
	if err != nil {
		flagsErr, ok := err.(*flags.Error)
		if !ok {
			fmt.Fprintf(os.Stderr, "[strptime] unknown parsed option error: %[1]T %[1]v\n", err)
			return exitError
		}
		if flagsErr.Type == flags.ErrHelp {
			return exitOK
		}
		return exitError
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "[strptime] no input given")
		return exitError
	}
	return parseAll(os.Stdout, os.Stderr, args, opt)
}

func parseOpt() ([]string, option, error) {
	var opt option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] DATA..."
	args, err := parser.Parse()
	return args, opt, err
}

func parseAll(stdout, stderr io.Writer, args []string, opt option) exitCode {
	logger, err := newLogger(opt.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	defer logger.Sync() //nolint:errcheck

	loc, err := time.LoadLocation(opt.Zone)
	if err != nil {
		fmt.Fprintf(stderr, "[strptime] load zone %q: %v\n", opt.Zone, err)
		return exitError
	}

	opts := []strptime.Option{
		strptime.WithLocation(loc),
		strptime.WithLogger(logger),
	}
	if opt.Locale != "" {
		opts = append(opts, strptime.WithLocale(opt.Locale))
	}
	for _, path := range opt.Overrides {
		opts = append(opts, strptime.WithOverridesFile(path))
	}

	cfg, err := strptime.NewConfig(opts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	parser := cfg.BuildParser()

	code := exitOK
	for _, data := range args {
		result, err := parser.Parse(data, opt.Format)
		if err != nil {
			fmt.Fprintln(stderr, err)
			if errors.Is(err, strptime.ErrFormatMismatch) {
				code = exitMismatch
				continue
			}
			return exitError
		}
		if err := writeResult(stdout, result, opt.Output, loc); err != nil {
			fmt.Fprintln(stderr, err)
			return exitError
		}
	}
	return code
}

func writeResult(w io.Writer, result strptime.Result, output string, loc *time.Location) error {
	switch output {
	case "tuple":
		tuple := result.Tuple()
		parts := make([]string, len(tuple))
		for i, v := range tuple {
			parts[i] = fmt.Sprint(v)
		}
		_, err := fmt.Fprintf(w, "(%s)\n", strings.Join(parts, ", "))
		return err
	case "rfc3339":
		_, err := fmt.Fprintln(w, result.Time(loc).Format(time.RFC3339))
		return err
	default:
		encoded, err := json.Marshal(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return err
	}
}

func newLogger(level LogLevel) (*zap.Logger, error) {
	var atomicLevel zap.AtomicLevel
	switch level {
	case LogLevelDebug:
		atomicLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case LogLevelInfo:
		atomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case LogLevelWarn:
		atomicLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case LogLevelError:
		atomicLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return nil, fmt.Errorf("unexpected log level %s", level)
	}
	config := &zap.Config{
		Level:             atomicLevel,
		Development:       false,
		Encoding:          "console",
		DisableStacktrace: true,
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	return config.Build()
}
