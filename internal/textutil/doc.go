// Package textutil turns dataset-provided names (app packages, test case
// directories) into tokens that are safe to use as report folder names.
package textutil
