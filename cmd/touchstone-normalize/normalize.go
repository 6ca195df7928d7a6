// CLAUDE:SUMMARY CLI subcommand that normalizes stdin line by line with a single transliteration context.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hazyhaar/touchstone-normalize/pkg/addresses"
	"github.com/hazyhaar/touchstone-normalize/pkg/metrics"
	"github.com/hazyhaar/touchstone-normalize/pkg/names"
	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

type normalizeFlags struct {
	mode      string
	latinize  bool
	minLength int
	sep       string
}

func cmdNormalize(args []string) {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	var f normalizeFlags
	fs.StringVar(&f.mode, "mode", "address", "address, keywords, name, prenormalize, tokens or ascii")
	fs.BoolVar(&f.latinize, "latinize", false, "transliterate addresses to ASCII")
	fs.IntVar(&f.minLength, "min-length", -1, "minimum address length, or minimum token length for tokens (default per mode)")
	fs.StringVar(&f.sep, "sep", names.DefaultSeparator, "token separator for name and tokens")
	fs.Parse(args)

	logger := newLogger()
	// One context for the whole run; this command is single-threaded.
	tr := translit.NewContext(metrics.TranslitOptions(logger)...)
	if err := tr.Warm(); err != nil {
		logger.Error("transliteration engine unavailable", "error", err)
		os.Exit(1)
	}

	line, err := lineNormalizer(f, tr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := normalizeLines(os.Stdin, os.Stdout, line); err != nil {
		logger.Error("normalize", "error", err)
		os.Exit(1)
	}
}

// lineNormalizer returns the per-line function for f.mode. Absent results
// print as empty lines so output stays aligned with input.
func lineNormalizer(f normalizeFlags, tr translit.Transliterator) (func(string) string, error) {
	switch f.mode {
	case "address":
		minLength := f.minLength
		if minLength < 0 {
			minLength = addresses.DefaultMinLength
		}
		return func(s string) string {
			out, _ := addresses.NormalizeWith(tr, s, f.latinize, minLength)
			return out
		}, nil
	case "keywords":
		kw, err := addresses.Keywords(f.latinize)
		if err != nil {
			return nil, err
		}
		return func(s string) string {
			out, _ := addresses.NormalizeWith(tr, s, f.latinize, 0)
			return kw.Shorten(out)
		}, nil
	case "name":
		return func(s string) string {
			out, _ := names.Normalize(s, f.sep)
			return out
		}, nil
	case "prenormalize":
		return names.Prenormalize, nil
	case "tokens":
		minLength := f.minLength
		if minLength < 0 {
			minLength = names.DefaultTokenMinLength
		}
		return func(s string) string {
			return strings.Join(names.Tokenize(s, minLength), f.sep)
		}, nil
	case "ascii":
		return tr.ASCII, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", f.mode)
	}
}

func normalizeLines(r io.Reader, w io.Writer, line func(string) string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	bw := bufio.NewWriter(w)
	for sc.Scan() {
		bw.WriteString(line(sc.Text()))
		bw.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return bw.Flush()
}
