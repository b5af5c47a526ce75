// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicholasgasior/docxtex"
	"github.com/nicholasgasior/docxtex/internal/bibliography"
	"github.com/nicholasgasior/docxtex/internal/docxmath"
)

func main() {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("quiet", false, "log only errors")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "docxtex",
		Short: "Word document to LaTeX-aware HTML and Markdown",
		Long:  `Convert Word documents, rendering equations as LaTeX and marking up citations`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = slog.LevelDebug
			}
			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				level = slog.LevelError
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	cmdRoot.AddCommand(cmdConvert())
	cmdRoot.AddCommand(cmdMath())
	cmdRoot.AddCommand(cmdBib())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

func cmdConvert() *cobra.Command {
	format := "markdown"
	var outputFile string
	maxDepth := docxmath.DefaultMaxDepth
	noBibliography := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVarP(&format, "format", "f", format, "output format: markdown, html or json")
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "output file (default: stdout)")
		cmd.Flags().IntVar(&maxDepth, "max-depth", maxDepth, "element nesting limit for equations")
		cmd.Flags().BoolVar(&noBibliography, "no-bibliography", noBibliography, "do not read bibliography sources")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "convert [docx-file]",
		Short:        "convert a Word document (reads stdin if no file is given)",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			switch format {
			case "markdown", "md", "html", "json":
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			c := docxtex.New(
				docxtex.WithMathMaxDepth(maxDepth),
				docxtex.WithMarkdown(format != "html"),
				docxtex.WithBibliography(!noBibliography),
			)

			var result *docxtex.Result
			var err error
			if len(args) == 0 {
				data, readErr := io.ReadAll(os.Stdin)
				if readErr != nil {
					return fmt.Errorf("read stdin: %w", readErr)
				}
				result, err = c.ConvertReader(bytes.NewReader(data), docxtex.StreamInfo{})
			} else {
				result, err = c.ConvertFile(args[0])
			}
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case "html":
				out = []byte(result.HTML)
			case "json":
				if out, err = json.MarshalIndent(result, "", "  "); err != nil {
					return err
				}
				out = append(out, '\n')
			default:
				out = []byte(result.Markdown + "\n")
			}
			return writeOutput(outputFile, out)
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdMath() *cobra.Command {
	maxDepth := docxmath.DefaultMaxDepth
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().IntVar(&maxDepth, "max-depth", maxDepth, "element nesting limit")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "math <omml-file>",
		Short:        "translate the equations in an OMML or document.xml file to LaTeX",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			t := docxmath.New(docxmath.WithMaxDepth(maxDepth))
			equations, err := t.TranslateXML(f)
			// Equations before a failing one are still printed.
			for _, latex := range equations {
				fmt.Fprintln(cmd.OutOrStdout(), latex)
			}
			return err
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdBib() *cobra.Command {
	var outputFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "output file (default: stdout)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "bib <docx-file>",
		Short:        "list the bibliography sources stored in a Word document",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zr, err := zip.OpenReader(args[0])
			if err != nil {
				return err
			}
			defer zr.Close()

			sources := bibliography.Read(&zr.Reader, slog.Default()).Sorted()
			data, err := json.MarshalIndent(sources, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(outputFile, append(data, '\n'))
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(docxtex.Version().String())
				return nil
			}
			fmt.Println(docxtex.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	slog.Info("wrote output", "path", path, "bytes", len(data))
	return nil
}
