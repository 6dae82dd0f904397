// fmdquery loads an FMD-index and runs a named mapping scheme over
// reads from stdin, one per line, printing each mapping as a
// tab-separated row. It exists for interactive inspection and smoke
// testing, not as a production query server or batch pipeline (both
// remain out of scope).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/exascience/fmdindex/fmdindex"
	"github.com/exascience/fmdindex/fmdio"
	"github.com/exascience/fmdindex/mapping"
	"github.com/exascience/fmdindex/utils"
)

// Help is printed for -h/--help and on argument errors.
const Help = "fmdquery parameters:\n" +
	"fmdquery -index basename [-scheme natural|mismatch|cmis|zip]\n" +
	"[-min-context n] [-add-context n] [-zmax n]\n" +
	"[-max-range-count n] [-max-extend-through n] [-use-retraction]\n" +
	"[-genome g] [-credit] [-left-min-context n] [-right-min-context n]\n" +
	"[-version]\n" +
	"Reads are read one per line from stdin.\n"

func main() {
	var indexPath, scheme string
	var minContext, addContext, zMax uint64
	var maxRangeCount, maxExtendThrough uint64
	var useRetraction, credit, version bool
	var genome int
	var leftMinContext, rightMinContext uint64

	flags := flag.NewFlagSet("fmdquery", flag.ContinueOnError)
	flags.SetOutput(ioutil.Discard)
	flags.BoolVar(&version, "version", false, "print version information and exit")
	flags.StringVar(&indexPath, "index", "", "basename of the on-disk index")
	flags.StringVar(&scheme, "scheme", "natural", "mapping scheme: natural, mismatch, cmis, zip")
	flags.Uint64Var(&minContext, "min-context", 1, "minimum context length before a position may be reported mapped")
	flags.Uint64Var(&addContext, "add-context", 0, "extra context required past first uniqueness (mismatch scheme)")
	flags.Uint64Var(&zMax, "zmax", 0, "maximum substitution mismatches (mismatch scheme)")
	flags.Uint64Var(&maxRangeCount, "max-range-count", 10, "retraction fan-out bound (zip scheme)")
	flags.Uint64Var(&maxExtendThrough, "max-extend-through", 0, "confirmation retraction bound (zip scheme)")
	flags.BoolVar(&useRetraction, "use-retraction", false, "allow retraction during zip confirmation")
	flags.IntVar(&genome, "genome", -1, "restrict matches to this genome id (-1: no restriction)")
	flags.BoolVar(&credit, "credit", false, "apply credit propagation over MapLeft/MapRight (ignores -scheme)")
	flags.Uint64Var(&leftMinContext, "left-min-context", 1, "left sentinel minimum context (credit)")
	flags.Uint64Var(&rightMinContext, "right-min-context", 1, "right sentinel minimum context (credit)")

	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprint(os.Stderr, Help)
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if version {
		fmt.Printf("%s %s (%s)\n", utils.ProgramName, utils.ProgramVersion, utils.ProgramURL)
		os.Exit(0)
	}
	if indexPath == "" {
		fmt.Fprintln(os.Stderr, "Missing -index.")
		fmt.Fprint(os.Stderr, Help)
		os.Exit(1)
	}

	log.Printf("fmdquery: loading index %q", indexPath)
	idx, err := fmdio.Load(indexPath)
	if err != nil {
		log.Fatal(err)
	}

	cfg := mapping.Config{Index: idx, MinContext: minContext}
	if genome >= 0 {
		cfg.Mask = idx.Contigs().Mask(genome)
	}

	var s mapping.Scheme
	switch scheme {
	case "natural":
		s = mapping.NaturalScheme{Config: cfg}
	case "mismatch":
		s = mapping.MisMatchScheme{MisMatchConfig: mapping.MisMatchConfig{Config: cfg, ZMax: zMax, AddContext: addContext}}
	case "cmis":
		s = mapping.CmisScheme{Config: cfg}
	case "zip":
		s = mapping.ZipMappingScheme{ZipConfig: mapping.ZipConfig{
			Config:           cfg,
			MaxRangeCount:    maxRangeCount,
			MaxExtendThrough: maxExtendThrough,
			UseRetraction:    useRetraction,
		}}
	default:
		log.Fatalf("fmdquery: unknown -scheme %q", scheme)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		query := scanner.Text()
		if query == "" {
			continue
		}
		var mappings []fmdindex.Mapping
		if credit {
			left, err := mapping.MapLeft(cfg, query)
			if err != nil {
				log.Fatal(err)
			}
			right, err := mapping.MapRight(cfg, query)
			if err != nil {
				log.Fatal(err)
			}
			creditCfg := mapping.CreditConfig{Config: cfg, LeftMinContext: leftMinContext, RightMinContext: rightMinContext, ZMax: zMax}
			mappings = mapping.CreditFilter(creditCfg, query, left, right)
		} else {
			mappings, err = s.Map(query)
			if err != nil {
				log.Fatal(err)
			}
		}
		printMappings(out, mappings)
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

func printMappings(out *bufio.Writer, mappings []fmdindex.Mapping) {
	for i, m := range mappings {
		if m.Mapped {
			fmt.Fprintf(out, "%d\ttrue\t%d\t%d\t%d\t%d\n", i, m.Position.Text, m.Position.Offset, m.LeftContext, m.RightContext)
		} else {
			fmt.Fprintf(out, "%d\tfalse\t\t\t\t\n", i)
		}
	}
}
