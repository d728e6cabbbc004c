package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(runMain(os.Args, env))
}

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) > 0 && isProgramName(args[0]) {
		args = args[1:]
	}
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "export":
		ctx, stop := notifyContext(context.Background())
		defer stop()
		return runExportCmd(ctx, rest, env)
	case "sections":
		runSections(env)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "audit2pdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// isProgramName reports whether arg is the binary path rather than a command.
func isProgramName(arg string) bool {
	return arg == "audit2pdf" || strings.HasSuffix(arg, "/audit2pdf") || strings.HasSuffix(arg, `\audit2pdf.exe`)
}

// newLogger returns a console logger on w. Quiet keeps errors only;
// verbose adds per-export debug lines.
func newLogger(env *Environment, quiet, verbose bool) *zap.Logger {
	level := zap.WarnLevel
	switch {
	case quiet:
		level = zap.ErrorLevel
	case verbose:
		level = zap.DebugLevel
	}
	return env.NewLogger(level)
}
