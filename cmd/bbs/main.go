// Command bbs streams Blum-Blum-Shub output or demonstrates seeking.
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/privacybydesign/bbs"
)

var (
	bits      int
	extract   uint
	workers   int
	stateFile string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "bbs",
	Short: "Seekable Blum-Blum-Shub pseudorandom generator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			bbs.Logger.SetLevel(logrus.DebugLevel)
		}
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Write an endless stream of 64-bit values in native byte order to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := buildGenerator()
		if err != nil {
			return err
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sig
			os.Exit(0)
		}()

		w := bufio.NewWriterSize(os.Stdout, 1<<16)
		defer w.Flush()
		var buf [8]byte
		for {
			binary.NativeEndian.PutUint64(buf[:], g.Next64())
			if _, err := w.Write(buf[:]); err != nil {
				// stdout went away; that is the normal way out
				return nil
			}
		}
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Show stepping, a hex dump, and a seek-back-and-replay exchange",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := buildGenerator()
		if err != nil {
			return err
		}
		fp, err := g.Fingerprint()
		if err != nil {
			return err
		}
		fmt.Printf("Generator %s (%d-bit modulus, %d bit(s) per step)\n", fp, g.Modulus().BitLen(), g.Extract())

		fmt.Println("First 10 outputs (64-bit):")
		for i := 0; i < 10; i++ {
			fmt.Printf("%016x\n", g.Next64())
		}
		fmt.Printf("Next 10 outputs (64-bit) - position %d:\n", g.Pos())
		for i := 0; i < 10; i++ {
			fmt.Printf("%016x\n", g.Next64())
		}

		// Next64 takes 64/e squarings of e bits, then one per remaining bit
		e := uint64(g.Extract())
		perOutput := 64/e + 64%e
		g.Seek(perOutput)
		fmt.Printf("Rewinding back to after 1st output - position %d:\n", g.Pos())
		for i := 0; i < 10; i++ {
			fmt.Printf("%016x\n", g.Next64())
		}

		g.Seek(0)
		dump := make([]byte, 32)
		g.NextBytes(dump)
		fmt.Printf("32 bytes from position 0: %s\n", hex.EncodeToString(dump))

		g.Seek(0)
		replay := make([]byte, 32)
		g.NextBytes(replay)
		fmt.Printf("Replayed after seek(0):   %s\n", hex.EncodeToString(replay))
		return nil
	},
}

// buildGenerator seeds a generator, or resumes the one in --state if the
// file exists. A fresh generator is snapshotted to --state right away.
func buildGenerator() (*bbs.Generator, error) {
	if stateFile != "" {
		if data, err := os.ReadFile(stateFile); err == nil {
			s, err := bbs.ParseState(data)
			if err != nil {
				return nil, err
			}
			bbs.Logger.Debugf("resuming from %s at position %d", stateFile, s.Pos)
			return bbs.NewFromState(s)
		}
	}

	bbs.Logger.Debugf("generating %d-bit modulus", bits)
	g, err := bbs.NewSeeded(bits, workers, nil)
	if err != nil {
		return nil, err
	}
	if extract > 1 {
		if err = g.SetExtract(extract); err != nil {
			return nil, err
		}
	}

	if stateFile != "" {
		data, err := g.State().Serialize()
		if err != nil {
			return nil, err
		}
		if err = os.WriteFile(stateFile, data, 0600); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&bits, "bits", "n", 1024, "modulus length in bits")
	rootCmd.PersistentFlags().UintVarP(&extract, "extract", "x", 1, "bits extracted per squaring (weakens the security argument above 1)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "parallel prime search workers (0 = all cores)")
	rootCmd.PersistentFlags().StringVarP(&stateFile, "state", "s", "", "resume from, or save to, this state file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log prime search progress")
	rootCmd.AddCommand(streamCmd, demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
