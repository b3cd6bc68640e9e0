// Package preview serves a built site locally and rebuilds it when sources
// change or on a fixed interval.
package preview
