// Package osint answers membership questions against a loaded
// *dataset.Dataset: is this email on a disposable or free provider, does this
// domain belong to a breached organisation, is this path a sensitive file or
// an admin panel, which cloud provider does this host point at.
//
// A Checker only reads the dataset, so a single Checker may be shared by any
// number of goroutines. ClassifyAll uses that to fan out a batch of inputs.
package osint
