// Package main hosts the a11ydiff CLI entrypoint and command graph.
//
// The Cobra-based command tree runs batch classification over a dataset,
// analyzes single test cases, browses recorded runs and scaffolds
// configuration. It centralizes configuration resolution and logger setup so
// subcommands only translate flags into calls on the internal packages.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
