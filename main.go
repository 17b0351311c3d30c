package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/eightbitforge/asm65/asm"
	"github.com/eightbitforge/asm65/compiler"
	"github.com/eightbitforge/asm65/config"
	"github.com/eightbitforge/asm65/output"
	"github.com/eightbitforge/asm65/tools"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		format      = flag.String("f", "bin", "Output format: bin or hex")
		cpuMode     = flag.String("cpu", "", "CPU mode: 6502 or 65c02 (overrides config)")
		configPath  = flag.String("config", "", "Path to config file (default: platform config dir)")
		dumpSymbols = flag.Bool("symbols", false, "Print symbol table to stdout after assembling")
		symbolsFile = flag.String("symbols-file", "", "Write symbol table to this file instead of stdout")
		xrefMode    = flag.Bool("xref", false, "Print a symbol cross-reference instead of assembling")
		lintMode    = flag.Bool("lint", false, "Lint the input for undefined/unused symbols instead of assembling")
		formatMode  = flag.Bool("format", false, "Print normalized source instead of assembling")
		defines     defineList
	)
	flag.Var(&defines, "D", "Pre-define a symbol: NAME or NAME=VALUE (repeatable)")

	flag.Parse()

	if *showVersion {
		fmt.Printf("asm65 %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	if *xrefMode || *lintMode || *formatMode {
		runToolMode(flag.Args(), *xrefMode, *lintMode, *formatMode)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Error: expected one or more input files followed by an output path")
		os.Exit(1)
	}
	inputs, outPath := args[:len(args)-1], args[len(args)-1]

	prog, err := parseAll(inputs, cfg.Assemble.IncludeDirs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error:\n%v\n", err)
		os.Exit(1)
	}

	c := compiler.New()
	c.SetWarnTruncated(cfg.Assemble.WarnTruncated)
	switch {
	case *cpuMode != "":
		if err := c.SetCPU(*cpuMode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cfg.Assemble.CPU != "":
		if err := c.SetCPU(cfg.Assemble.CPU); err != nil {
			fmt.Fprintf(os.Stderr, "Error in config cpu: %v\n", err)
			os.Exit(1)
		}
	}

	for _, d := range cfg.Assemble.Defines {
		name, val, err := parseDefine(d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in config define %q: %v\n", d, err)
			os.Exit(1)
		}
		c.Define(name, val)
	}
	for _, d := range defines {
		name, val, err := parseDefine(d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in -D %q: %v\n", d, err)
			os.Exit(1)
		}
		c.Define(name, val)
	}

	result, err := c.Compile(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compile error:\n%v\n", err)
		os.Exit(1)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	outFmt := *format
	if outFmt == "bin" && cfg.Output.Format != "" && !flagWasSet("f") {
		outFmt = cfg.Output.Format
	}

	if err := writeOutput(outPath, outFmt, result, cfg.Output.BytesPerLine); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	if *dumpSymbols || *symbolsFile != "" || (cfg.Output.DumpSymbols && !flagWasSet("symbols")) {
		if err := dumpSymbolTable(*symbolsFile, result.Symbols); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing symbols: %v\n", err)
			os.Exit(1)
		}
	}
}

// defineList collects repeated -D flags.
type defineList []string

func (d *defineList) String() string { return strings.Join(*d, ",") }
func (d *defineList) Set(v string) error {
	*d = append(*d, v)
	return nil
}

// parseDefine splits a "-D" argument into a symbol name and value.
// Bare "NAME" means 1; "NAME=VALUE" parses VALUE with strconv base 0:
// "0x" is hex, "0b" binary, "0o" or a leading "0" octal, else decimal.
func parseDefine(raw string) (string, int64, error) {
	name, valueStr, hasValue := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("empty symbol name")
	}
	if !hasValue {
		return name, 1, nil
	}
	val, err := strconv.ParseInt(valueStr, 0, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid value %q: %w", valueStr, err)
	}
	return name, val, nil
}

func parseAll(paths []string, includeDirs []string) (*asm.Program, error) {
	prog := &asm.Program{}
	for _, p := range paths {
		part, err := asm.ParseFileWithIncludeDirs(p, includeDirs)
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, part.Statements...)
	}
	return prog, nil
}

func writeOutput(path, format string, result *compiler.Result, bytesPerLine int) error {
	f, err := os.Create(path) // #nosec G304 -- user-specified output file path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	switch format {
	case "bin":
		return output.WriteBinary(f, result.Bytes)
	case "hex":
		return output.WriteHex(f, result.Bytes, result.StartOrigin, bytesPerLine)
	default:
		return fmt.Errorf("unknown output format %q (expected bin or hex)", format)
	}
}

func dumpSymbolTable(path string, symbols *asm.SymbolTable) error {
	if path == "" {
		return output.WriteSymbols(os.Stdout, symbols)
	}
	f, err := os.Create(path) // #nosec G304 -- user-specified symbols file path
	if err != nil {
		return fmt.Errorf("failed to create symbols file: %w", err)
	}
	defer f.Close()
	return output.WriteSymbols(f, symbols)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func flagWasSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func runToolMode(args []string, xref, lint, format bool) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected an input file")
		os.Exit(1)
	}
	path := args[0]
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	src := string(content)

	switch {
	case xref:
		report, err := tools.GenerateXRef(src, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(report)

	case lint:
		issues, err := tools.Lint(src, path, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		sort.Slice(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
		for _, issue := range issues {
			fmt.Println(issue.String())
		}
		if len(issues) > 0 {
			os.Exit(1)
		}

	case format:
		f := tools.NewFormatter(nil)
		out, err := f.Format(src, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	}
}

func printHelp() {
	fmt.Printf(`asm65 %s

Usage: asm65 [options] <input.asm>... <output>
       asm65 -xref <input.asm>
       asm65 -lint <input.asm>
       asm65 -format <input.asm>

Options:
  -help              Show this help message
  -version           Show version information
  -f FORMAT          Output format: bin or hex (default: bin)
  -cpu MODE          CPU mode: 6502 or 65c02 (default: from config, else 6502)
  -config PATH       Path to config file (default: platform config dir)
  -D NAME[=VALUE]    Pre-define a symbol (repeatable); VALUE honors 0x prefix
  -symbols           Print the symbol table to stdout after assembling
  -symbols-file FILE Write the symbol table to FILE instead of stdout

Tool Modes:
  -xref              Print a symbol cross-reference for the input file
  -lint              Report undefined and unused symbols; exit 1 if any found
  -format            Print normalized source (column-aligned) for the input file

Examples:
  asm65 program.asm program.bin
  asm65 -f hex program.asm program.hex
  asm65 -cpu 65c02 -D DEBUG main.asm lib.asm program.bin
  asm65 -symbols -f hex program.asm program.hex
  asm65 -xref program.asm
`, Version)
}
