// Package homepage turns the site title, tagline and a fixed list of feature
// records into the header and feature blocks shown on the landing page.
//
// Rendering is pure: no I/O, no shared mutable state. Functions may be called
// concurrently and sequences re-iterated any number of times.
package homepage
