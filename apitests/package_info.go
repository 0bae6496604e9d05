// Package apitests contains the contract scenarios for the ERP service's HTTP API and
// their supporting test API.
//
// Runner infrastructure that is not specific to this service, such as filtering, result
// accounting and debug output capture, is in the lower-level framework package. The
// HTTP request builder is in the apiclient package.
package apitests
