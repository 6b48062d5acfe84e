// Package input turns user-provided text into arrays for the sort engine and
// generates random arrays.
package input
