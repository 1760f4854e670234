// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ostafen/seginfo/pkg/report"
	"github.com/spf13/cobra"
)

func DefineShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <report.xml>",
		Short: "Print the summary stored in a scan report",
		Long: `The 'show' command reads an XML report produced by 'scan --output' and prints
the scanned source, its layout and the computed statistics.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunShow,
	}
}

func RunShow(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rep, err := report.Read(f)
	if err != nil {
		return fmt.Errorf("failed to read report %q: %w", args[0], err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	src, s := rep.Source, rep.Summary
	fmt.Fprintf(w, "Scan ID:\t%s\n", rep.ScanID)
	fmt.Fprintf(w, "Created by:\t%s %s\n", rep.Creator.Package, rep.Creator.Version)
	fmt.Fprintf(w, "Started at:\t%s\n", rep.Creator.ExecutionEnvironment.Start)
	fmt.Fprintf(w, "Source:\t%s (%d bytes)\n", src.Filename, src.Size)
	fmt.Fprintf(w, "Sample format:\t%d (%s)\n", s.Format, s.FormatName)
	fmt.Fprintf(w, "Samples per trace:\t%d\n", src.Layout.SamplesPerTrace)
	fmt.Fprintf(w, "Bytes per sample:\t%d\n", src.Layout.SampleBytes)
	fmt.Fprintf(w, "Traces:\t%d\n", s.Traces)

	if s.SampleCounts.Observed > 0 {
		fmt.Fprintf(w, "Min sample count:\t%d\n", s.SampleCounts.Min)
		fmt.Fprintf(w, "Max sample count:\t%d\n", s.SampleCounts.Max)
	} else {
		fmt.Fprintln(w, "Min sample count:\tn/a")
		fmt.Fprintln(w, "Max sample count:\tn/a")
	}

	fmt.Fprintf(w, "Min sample value:\t%s\n", extremumString(s.Min))
	fmt.Fprintf(w, "Max sample value:\t%s\n", extremumString(s.Max))
	if s.Digest != "" {
		fmt.Fprintf(w, "Payload digest:\t%s\n", s.Digest)
	}
	fmt.Fprintf(w, "Duration:\t%s\n", s.Duration)

	return w.Flush()
}

func extremumString(e report.Extremum) string {
	if !e.Found {
		return "none found"
	}
	return fmt.Sprintf("%s at trace %d", e.Value, e.Trace)
}
