// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command busverify checks simulated waveforms against the output spec of
// a bus file. The exit status reflects the overall verdict.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/etihwnad/ee-tools/busfile"
	"github.com/etihwnad/ee-tools/rawfile"
	"github.com/etihwnad/ee-tools/verify"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "busverify <busfile> <rawfile>",
	Short: "Verify simulator waveforms against the output spec of a bus file",
	Long: `busverify reads the Outputs section of a bus file and the traces of a
simulator raw file, reconstructs the digital value of each output signal
around every clock edge, and reports pass/fail per signal. Details go to
busverify.log.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0], args[1])
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "increase log verbosity")
}

func run(busPath, rawPath string) error {
	logf, err := setupLog("busverify.log", verbose)
	if err != nil {
		return err
	}
	defer logf.Close()

	f, err := busfile.ParseFile(busPath)
	if err != nil {
		return err
	}
	traces, err := rawfile.Open(rawPath)
	if err != nil {
		return err
	}

	res, err := verify.Verify(f, traces)
	if err != nil {
		return err
	}

	for _, s := range res.Signals {
		status := "PASS"
		if !s.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s: %s  got %s  want %s\n", s.Name, status, s.Got, s.Want)
	}
	if !res.Passed {
		fmt.Println("Some vectors failed")
		return errors.New("verification failed")
	}
	fmt.Println("All vectors passed")
	return nil
}

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
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
