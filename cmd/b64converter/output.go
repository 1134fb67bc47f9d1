package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/b64converter/convert"
	"github.com/deepnoodle-ai/b64converter/errz"
	"github.com/hokaccha/go-prettyjson"
)

func validateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "text", "json":
		return nil
	default:
		return errz.Usagef("unknown output format: %s", format)
	}
}

func printReport(w io.Writer, report *convert.Report, format string, noColor bool) error {
	switch strings.ToLower(format) {
	case "", "text":
		fmt.Fprintln(w, report.Summary())
		if report.Saved {
			fmt.Fprintf(w, "Saved: %s\n", report.Output)
		} else {
			fmt.Fprintf(w, "Not written: %s\n", report.Output)
		}
		return nil
	case "json":
		data, err := reportJSON(report, noColor)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	default:
		return errz.Usagef("unknown output format: %s", format)
	}
}

func reportJSON(report *convert.Report, noColor bool) ([]byte, error) {
	if noColor {
		return json.MarshalIndent(report, "", "  ")
	}
	return prettyjson.Marshal(report)
}
