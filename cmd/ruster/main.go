package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ruster-lang/ruster/ruster"
)

func main() {
	if err := runCLI(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, styles.err.Render(err.Error()))
		os.Exit(1)
	}
}

// cli carries the streams a subcommand reads from and writes to.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 2 {
		return usageError(stderr)
	}
	c := cli{stdin: stdin, stdout: stdout, stderr: stderr}
	switch args[1] {
	case "run":
		return c.runCommand(args[2:])
	case "check":
		return c.checkCommand(args[2:])
	case "tokens":
		return c.tokensCommand(args[2:])
	case "ast":
		return c.astCommand(args[2:])
	case "suite":
		return c.suiteCommand(args[2:])
	case "repl":
		return c.replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage(stderr)
		return nil
	default:
		return usageError(stderr)
	}
}

// engineFlags are shared by every subcommand that builds an Engine.
type engineFlags struct {
	configPath string
	verbose    bool
}

func (f *engineFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "TOML file with [engine] limits")
	fs.BoolVar(&f.verbose, "v", false, "log engine activity to stderr")
}

func (c cli) newEngine(f engineFlags) (*ruster.Engine, error) {
	var cfg ruster.Config
	if f.configPath != "" {
		data, err := os.ReadFile(f.configPath)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg, err = ruster.ParseConfig(data)
		if err != nil {
			return nil, err
		}
	}
	if f.verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return ruster.NewEngine(cfg)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	return fs
}

func (c cli) readSource() (string, error) {
	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func (c cli) runCommand(args []string) error {
	fs := newFlagSet("run")
	var ef engineFlags
	ef.register(fs)
	function := fs.String("function", "main", "function to invoke after compilation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	engine, err := c.newEngine(ef)
	if err != nil {
		return err
	}
	source, err := c.readSource()
	if err != nil {
		return err
	}
	script, err := engine.Compile(source)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	c.printWarnings(script.Warnings())
	if _, err := script.Call(context.Background(), *function, nil, ruster.CallOptions{Output: c.stdout}); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func (c cli) checkCommand(args []string) error {
	fs := newFlagSet("check")
	var ef engineFlags
	ef.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	engine, err := c.newEngine(ef)
	if err != nil {
		return err
	}
	source, err := c.readSource()
	if err != nil {
		return err
	}
	script, err := engine.Compile(source)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	c.printWarnings(script.Warnings())
	fmt.Fprintln(c.stdout, styles.result.Render(fmt.Sprintf("ok: %d function(s)", len(script.Functions()))))
	return nil
}

func (c cli) tokensCommand(args []string) error {
	if err := newFlagSet("tokens").Parse(args); err != nil {
		return err
	}
	source, err := c.readSource()
	if err != nil {
		return err
	}
	return ruster.DumpTokens(source, c.stdout)
}

func (c cli) astCommand(args []string) error {
	if err := newFlagSet("ast").Parse(args); err != nil {
		return err
	}
	source, err := c.readSource()
	if err != nil {
		return err
	}
	program, err := ruster.Parse(source)
	if err != nil {
		return err
	}
	return ruster.DumpAST(program, c.stdout)
}

func (c cli) suiteCommand(args []string) error {
	fs := newFlagSet("suite")
	var ef engineFlags
	ef.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	engine, err := c.newEngine(ef)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	suite, err := ruster.LoadSuite(data)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range engine.RunSuite(context.Background(), suite) {
		if r.Passed {
			fmt.Fprintln(c.stdout, styles.result.Render("PASS")+" "+r.Name)
			continue
		}
		failed++
		detail := fmt.Sprintf("output %q", r.Output)
		if r.Err != nil {
			detail += fmt.Sprintf(", %s", r.Err)
		}
		fmt.Fprintln(c.stdout, styles.err.Render("FAIL")+" "+r.Name+" "+styles.muted.Render(detail))
	}
	fmt.Fprintln(c.stdout, styles.muted.Render(fmt.Sprintf("%d fixture(s), %d failed", len(suite.Fixtures), failed)))
	if failed > 0 {
		return fmt.Errorf("suite: %d of %d fixture(s) failed", failed, len(suite.Fixtures))
	}
	return nil
}

func (c cli) replCommand(args []string) error {
	fs := newFlagSet("repl")
	var ef engineFlags
	ef.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	engine, err := c.newEngine(ef)
	if err != nil {
		return err
	}
	return runREPL(engine)
}

func (c cli) printWarnings(warnings []ruster.Warning) {
	for _, w := range warnings {
		fmt.Fprintln(c.stderr, styles.warning.Render(w.String()))
	}
}

func usageError(w io.Writer) error {
	printUsage(w)
	return errors.New("invalid command")
}

func printUsage(w io.Writer) {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage: %s <command> [flags] < program\n", prog)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run      compile and run the program's main function")
	fmt.Fprintln(w, "  check    compile only and report warnings")
	fmt.Fprintln(w, "  tokens   print the token stream")
	fmt.Fprintln(w, "  ast      print the syntax tree as YAML")
	fmt.Fprintln(w, "  suite    run a YAML fixture manifest")
	fmt.Fprintln(w, "  repl     start an interactive session")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config string")
	fmt.Fprintln(w, "    TOML file with [engine] limits (run, check, suite, repl)")
	fmt.Fprintln(w, "  -function string")
	fmt.Fprintln(w, "    function to invoke with run (default \"main\")")
	fmt.Fprintln(w, "  -v")
	fmt.Fprintln(w, "    log engine activity to stderr")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
