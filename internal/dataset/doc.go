// Package dataset loads the OSINT reference datasets into memory.
//
// Six files make up the fixed manifest (see DefaultManifest): five
// newline-delimited text files that become case-folded, deduplicated sets
// and one JSON document kept verbatim. Load reads them sequentially from a
// base directory and returns an immutable *Dataset, or the first error.
// There is no partial result: a missing or unparsable file fails the load and
// nothing is returned.
//
// The Dataset is meant to be built once at startup and handed to consumers
// explicitly. Its accessors never expose internal state for mutation, so any
// number of goroutines may read it concurrently after Load returns.
//
//	ds, err := dataset.Load(config.ResolveDatasetDir(), dataset.WithLogger(logger))
//	if err != nil {
//	    return err // fatal at startup
//	}
//	if ds.DisposableDomains().Contains("mailinator.com") { ... }
package dataset
