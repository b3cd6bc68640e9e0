// Package workspace manages the staging directory a build renders into.
//
// A build writes the whole site into a fresh staging directory next to the
// output directory and, only when it succeeds, swaps the staging directory
// into place. A failed or canceled build leaves the previous output intact.
package workspace
