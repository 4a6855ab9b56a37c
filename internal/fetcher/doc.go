// Package fetcher builds problem page URLs and downloads their markup.
//
// # Components
//
//   - BuildURL: Maps (year, problem number, variant) to the canonical wiki URL
//   - Fetcher: Issues one HTTP GET per page and returns the raw markup
//
// The fetcher performs exactly one request per call. There is no retry,
// no backoff and, unless configured, no timeout: a stalled request stalls
// the unit of work that issued it. Failures are reported as *TransportError.
//
// # Usage
//
//	f := fetcher.New(fetcher.WithUserAgent("aopsharvest/1.0"))
//	page, err := f.FetchPage(ctx, 2023, 21, model.VariantAMC8)
package fetcher
