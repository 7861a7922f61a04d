// Command fpcompare classifies golden trace files recorded on different
// platforms against each other. Given two or more base paths it resolves
// the six files each recording run produced, compares every category
// with at least two resolvable files, and prints a per-file summary. The
// first base path is the baseline.
//
// The near-match tolerance in ULPs is mandatory: how far apart two
// platforms may drift is a policy decision, not a default.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/reflop/reflop"
	"github.com/reflop/reflop/compare"
	"github.com/reflop/reflop/trace"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("fpcompare: ")

	var (
		maxULP  = flag.Int64("ulp", -1, "near-match tolerance in ULPs (required)")
		logPath = flag.String("log", "", "append per-divergence records to this file; a .zst suffix compresses")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: fpcompare -ulp <n> [flags] <base-path> <base-path> [base-path...]\n\n")
		fmt.Fprintf(flag.CommandLine.Output(),
			"Compares the golden files {base}_{simple,double}_{basic,nan,lib}.bin\nof each base path against those of the first.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *maxULP < 0 {
		fmt.Fprintln(flag.CommandLine.Output(), "fpcompare: -ulp is required and must be non-negative")
		flag.Usage()
		os.Exit(2)
	}
	bases := flag.Args()
	if len(bases) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	c := compare.New(uint64(*maxULP))
	if *logPath != "" {
		l, err := compare.OpenLog(*logPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer l.Close()
		c.Log = l
	}

	divergences := 0
	for _, typ := range []reflop.NumericType{reflop.Single, reflop.Double} {
		for _, cat := range reflop.Categories {
			paths := resolve(bases, typ, cat)
			if len(paths) < 2 {
				fmt.Printf("\nComparing %s %s files:\nskipped: only %d resolvable file(s)\n",
					typ.FileToken(), cat, len(paths))
				continue
			}
			res, err := c.Compare(typ, cat, paths)
			if err != nil {
				log.Fatalf("comparing %s %s: %v", typ.FileToken(), cat, err)
			}
			res.WriteSummary(os.Stdout)
			divergences += res.TotalDivergences()
		}
	}

	if c.Log != nil {
		fmt.Printf("\ndivergence details appended to %s\n", c.Log.Path())
	}
	if divergences > 0 {
		fmt.Printf("\n%d divergence(s) found\n", divergences)
		os.Exit(1)
	}
	fmt.Println("\nno divergences found")
}

// resolve maps base paths to the golden files that actually exist,
// warning about each one missing.
func resolve(bases []string, typ reflop.NumericType, cat reflop.Category) []string {
	var paths []string
	for _, base := range bases {
		p := trace.FilePath(base, typ, cat)
		if _, err := os.Stat(p); err != nil {
			log.Printf("warning: %s not found, skipping", p)
			continue
		}
		paths = append(paths, p)
	}
	return paths
}
