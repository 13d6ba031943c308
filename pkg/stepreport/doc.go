// Package stepreport records per-step evidence of test cases and renders it
// as an HTML report.
//
// A Suite runs Cases in registration order. Case code reports narrative
// Events and evaluated Assertions, optionally with screenshots, and returns
// the error of a failing Assert call to stop. Each case lands in exactly one
// of the succeeded, failed or errored buckets of Results, independently of
// its PASS, WARNING or FAIL status.
package stepreport
