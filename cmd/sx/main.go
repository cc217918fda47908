package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.bug.st/serial"

	"github.com/xiwh/xmodem/rawmode"
	"github.com/xiwh/xmodem/xmodem"
)

const (
	exitOK                = 0
	exitSourceUnavailable = 1
	exitFailed            = 2
)

type globalFlags struct {
	flagset    *flag.FlagSet
	maxRetries int
	timeout    time.Duration
	serialPort string
	baud       int
	trace      bool
	debug      bool
	noRaw      bool
}

func newGlobalFlags(name string, output io.Writer) *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(name, flag.ContinueOnError),
	}
	f.flagset.SetOutput(output)
	f.flagset.IntVar(
		&f.maxRetries,
		"max-retries",
		0,
		"number of times a rejected block is sent again (0 retries forever)",
	)
	f.flagset.DurationVar(
		&f.timeout,
		"timeout",
		0,
		"how long to wait for each reply from the receiver (0 waits forever)",
	)
	f.flagset.StringVar(
		&f.serialPort,
		"serial-port",
		"",
		"serial device to send over instead of stdin/stdout (e.g. /dev/ttyUSB0)",
	)
	f.flagset.IntVar(&f.baud, "baud", 9600, "baud rate for -serial-port")
	f.flagset.BoolVar(&f.trace, "trace", false, "hex dump every write to the wire (implies -debug)")
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	f.flagset.BoolVar(&f.noRaw, "no-raw", false, "do not switch the terminal into raw mode")
	return f
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f := newGlobalFlags(args[0], stderr)
	if err := f.flagset.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "failed to parse command args: %s\n", err)
		return exitFailed
	}
	if f.flagset.NArg() < 1 {
		fmt.Fprintf(stdout, "%s <fn>\n", args[0])
		return exitOK
	}
	path := f.flagset.Arg(0)

	//stdout是线路，日志只能写stderr
	level := slog.LevelInfo
	if f.debug || f.trace {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	in, out := stdin, stdout
	var mode xmodem.ModeController = rawmode.Nop{}
	if f.serialPort != "" {
		port, err := serial.Open(f.serialPort, &serial.Mode{
			BaudRate: f.baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		})
		if err != nil {
			logger.Error("could not open serial port", "port", f.serialPort, "error", err)
			return exitFailed
		}
		defer port.Close()
		logger.Info("opened serial port", "port", f.serialPort, "baud", f.baud)
		in, out = port, port
	} else if file, ok := stdin.(*os.File); ok && !f.noRaw {
		mode = rawmode.NewTerminal(int(file.Fd()))
	}

	sender := xmodem.NewSender(path, in, out,
		xmodem.WithLogger(logger),
		xmodem.WithMaxRetries(f.maxRetries),
		xmodem.WithTimeout(f.timeout),
		xmodem.WithModeController(mode),
		xmodem.WithBanner(stdout),
		xmodem.WithTrace(f.trace),
	)
	result, err := sender.Send(ctx)
	return exitCode(result, err, stderr)
}

func exitCode(result xmodem.Result, err error, stderr io.Writer) int {
	switch result.Status {
	case xmodem.StatusCompleted, xmodem.StatusCancelled:
		return exitOK
	case xmodem.StatusSourceUnavailable:
		reason := err
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			reason = pathErr.Err
		}
		fmt.Fprintf(stderr, "Could not open file: %s\n", reason)
		return exitSourceUnavailable
	}
	return exitFailed
}
