// Package model defines the core data structures used throughout aopsharvest.
//
// This package contains the following main types:
//   - Variant: The competition edition that determines the page URL shape
//   - HarvestRequest: The immutable description of one harvest run
//   - FetchedPage: Raw markup of one problem page, owned by one fetch unit
//   - ExtractedProblem: The problem and solution fragments of one page
//   - YearGroup: All problems of one year, kept sorted by number
//   - AggregateResult: The grouped output handed to the renderer
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The fetcher, extract, harvest, render and database packages
// all need these types, so centralizing them prevents import cycles.
//
// The models are serializable to JSON for result output and database storage.
package model
