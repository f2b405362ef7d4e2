// Package performance holds latency tests and benchmarks for the license
// workflow and its HTTP adapter. Latency tests are skipped with -short.
package performance
