// Command fprecord records golden floating-point trace files for this
// platform. Given a base path it produces six files, one per numeric
// type and trace category:
//
//	{base}_{simple,double}_{basic,nan,lib}.bin
//
// The base name conventionally identifies the platform and backend, for
// example "sse_linux_amd64".
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/reflop/reflop"
	"github.com/reflop/reflop/fpenv"
	"github.com/reflop/reflop/trace"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("fprecord: ")

	var (
		backend = flag.String("backend", "auto", "floating-point backend: auto, x87, sse, neon or soft")
		seed    = flag.Uint64("seed", trace.DefaultSeed, "deterministic value stream seed")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: fprecord [flags] <base-path>\n\n")
		fmt.Fprintf(flag.CommandLine.Output(),
			"Records six golden files named {base}_{simple,double}_{basic,nan,lib}.bin\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	base := flag.Arg(0)

	b, err := pickBackend(*backend)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("recording with %s backend\n", b.Kind())

	r := trace.NewRecorder(b)
	r.Seed = *seed

	for _, typ := range []reflop.NumericType{reflop.Single, reflop.Double} {
		if err := r.Run(base, typ); err != nil {
			log.Fatalf("recording %s traces: %v", typ, err)
		}
		for _, cat := range reflop.Categories {
			fmt.Printf("wrote %s\n", trace.FilePath(base, typ, cat))
		}
	}
}

func pickBackend(name string) (fpenv.Backend, error) {
	if name == "auto" {
		return fpenv.Detect(), nil
	}
	kind, err := fpenv.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return fpenv.New(kind)
}
