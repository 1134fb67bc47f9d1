package main

import (
	"io"

	"github.com/deepnoodle-ai/b64converter/convert"
	"github.com/deepnoodle-ai/b64converter/errz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCommand(v *viper.Viper, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "b64converter <path-to-module-image>",
		Short: "Inline Base64-decoded string literals in a module",
		Long: `Scans every method body of a module image for runtime Base64 string
decoding (Convert.FromBase64String + Encoding.GetString), replaces each
sequence whose payload is readable text with a plain string literal, and
writes the result next to the input as <name>_converted<ext>.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errz.Usagef("expected exactly one module path, got %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bindConfig(v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, v, stderr, args[0])
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errz.Usagef("%v", err)
	})

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default .b64converter.yaml in . or $HOME)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.Bool("no-color", false, "disable colored output")

	f := cmd.Flags()
	f.String("suffix", convert.DefaultSuffix, "suffix appended to the output file name")
	f.String("format", "auto", "output encoding: auto, json or cbor")
	f.Bool("strict-utf8", false, "reject payloads that are not valid UTF-8")
	f.Bool("dry-run", false, "scan without writing the output file")
	f.StringP("output", "o", "text", "report format: text or json")

	cmd.AddCommand(newDisCommand(v))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func runConvert(cmd *cobra.Command, v *viper.Viper, stderr io.Writer, path string) error {
	if err := validateOutputFormat(v.GetString("output")); err != nil {
		return err
	}
	log, err := newLogger(v, stderr)
	if err != nil {
		return err
	}
	cfg := convert.Config{
		Suffix:     v.GetString("suffix"),
		Format:     v.GetString("format"),
		StrictUTF8: v.GetBool("strict-utf8"),
		DryRun:     v.GetBool("dry-run"),
		Logger:     &log,
	}
	report, runErr := convert.Run(cfg, path)
	if report != nil {
		if err := printReport(cmd.OutOrStdout(), report, v.GetString("output"), v.GetBool("no-color")); err != nil {
			return err
		}
	}
	return runErr
}
