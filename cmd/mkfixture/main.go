// mkfixture writes a small synthetic three-table dataset with one known
// fraud pattern per signal plus a clean peer cohort.
// Usage: go run ./cmd/mkfixture --out testdata/dataset --seed 1
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gyeh/fraudscan/internal/fixture"
)

func main() {
	out := flag.String("out", "testdata/dataset", "output directory")
	seed := flag.Int64("seed", 1, "rng seed for clean cohort jitter")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir output: %v\n", err)
		os.Exit(1)
	}

	d := fixture.Generate(*seed)
	if err := d.WriteDir(*out); err != nil {
		fmt.Fprintf(os.Stderr, "write fixture: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote fixture to %s\n", *out)
	fmt.Printf("  claims:     %d rows\n", len(d.Claims))
	fmt.Printf("  providers:  %d rows\n", len(d.Providers))
	fmt.Printf("  exclusions: %d rows\n", len(d.Exclusions))
}
