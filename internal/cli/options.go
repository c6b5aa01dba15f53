// Package cli provides the shared plumbing of the gemcurate command-line
// tools: standard flags, tab-delimited I/O and diagnostics.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/gemcurate/gemcurate/internal/config"
	"github.com/spf13/cobra"
)

// ColOptions selects the columns a tool reads from its input table.
type ColOptions struct {
	// Cols are header names or 1-based indices; "0" is the last column.
	Cols []string

	// NoHead indicates the input has no header row
	NoHead bool
}

// AddColFlags adds the column selection flags to a cobra command. name and
// usage describe the column flag, e.g. "formula-col".
func AddColFlags(cmd *cobra.Command, opts *ColOptions, name, short, usage string) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.Cols, name, short, nil, usage)
	flags.BoolVar(&opts.NoHead, "nohead", false, "input file has no header row")
}

// IOOptions contains input/output options.
type IOOptions struct {
	// Input is the input file path (empty = stdin)
	Input string

	// Output is the output file path (empty = stdout)
	Output string
}

// AddIOFlags adds the I/O flags to a cobra command.
func AddIOFlags(cmd *cobra.Command, opts *IOOptions) {
	flags := cmd.Flags()

	flags.StringVarP(&opts.Input, "input", "i", "",
		"input file (default: stdin)")
	flags.StringVarP(&opts.Output, "output", "o", "",
		"output file (default: stdout)")
}

// AddDelimFlag adds the --delim flag. Its value is resolved through the
// configuration, see LoadConfig.
func AddDelimFlag(cmd *cobra.Command) {
	cmd.Flags().String("delim", "::",
		"delimiter for multi-valued fields (::, tab, space, semi, comma)")
}

// Delimiter maps delimiter names to the delimiter itself.
func Delimiter(name string) string {
	switch name {
	case "tab":
		return "\t"
	case "space":
		return " "
	case "semi":
		return "; "
	case "comma":
		return ","
	default:
		return name
	}
}

// ConfigOptions are the flags every tool shares for configuration.
type ConfigOptions struct {
	// Path is an explicit configuration file
	Path string

	// Show prints the effective configuration and exits
	Show bool

	// Debug enables debug output
	Debug bool
}

// AddConfigFlags adds the configuration flags to a cobra command.
func AddConfigFlags(cmd *cobra.Command, opts *ConfigOptions) {
	flags := cmd.Flags()

	flags.StringVar(&opts.Path, "config", "",
		"configuration file (default: $HOME/.gemcurate.yaml)")
	flags.BoolVar(&opts.Show, "show-config", false,
		"print the effective configuration and exit")
	flags.BoolVar(&opts.Debug, "debug", false,
		"enable debug output")
}

// Logger writes diagnostics to stderr.
type Logger struct {
	Out   io.Writer
	Debug bool
}

// NewLogger creates a logger writing to stderr.
func NewLogger(debug bool) *Logger {
	return &Logger{Out: os.Stderr, Debug: debug}
}

// Debugf prints a DEBUG line when debug output is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		fmt.Fprintf(l.Out, "DEBUG: "+format+"\n", args...)
	}
}

// Warnf reports a problem that does not stop the run.
func (l *Logger) Warnf(format string, args ...any) {
	fmt.Fprintf(l.Out, format+"\n", args...)
}

// LoadConfig resolves the configuration of cmd, with its flags taking
// precedence over environment and configuration file.
func LoadConfig(cmd *cobra.Command, opts *ConfigOptions) (config.Config, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}
	return config.Load(v, opts.Path)
}
