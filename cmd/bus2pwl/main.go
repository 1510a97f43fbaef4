// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command bus2pwl converts a .bus stimulus description into a SPICE PWL
// source deck.
package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/etihwnad/ee-tools/busfile"
	"github.com/etihwnad/ee-tools/pwl"
)

var (
	outPath    string
	verbose    bool
	permissive bool
)

var rootCmd = &cobra.Command{
	Use:   "bus2pwl <busfile>",
	Short: "Convert a .bus file into a SPICE PWL file",
	Long: `bus2pwl parses a bus file describing digital stimulus and writes a
PWL voltage source deck (plus a clock pulse source) for a circuit
simulator. By default the output file is the bus file with its .bus
extension replaced by .pwl.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "name of the output PWL file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "increase log verbosity")
	rootCmd.Flags().BoolVarP(&permissive, "permissive", "p", false,
		"pass improperly specified bus signal names through as wires instead of failing")
}

func run(busPath string) error {
	logf, err := setupLog("bus2pwl.log", verbose)
	if err != nil {
		return err
	}
	defer logf.Close()

	p := busfile.Parser{Permissive: permissive}
	f, err := p.ParseFile(busPath)
	if err != nil {
		return err
	}

	name := outPath
	if name == "" {
		name = defaultOut(busPath)
	}
	out, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	if err := pwl.Write(out, f); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, name)
	}
	logrus.Infof("output file: %s", name)
	return nil
}

func defaultOut(busPath string) string {
	if strings.HasSuffix(busPath, ".bus") {
		return strings.TrimSuffix(busPath, ".bus") + ".pwl"
	}
	return busPath + ".pwl"
}

// setupLog sends the detail log to a file, debug level with -v. Errors
// still reach the terminal through cobra.
func setupLog(path string, verbose bool) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "creating log file")
	}
	logrus.SetOutput(f)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return f, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
