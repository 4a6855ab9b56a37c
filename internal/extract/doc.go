// Package extract cuts the problem statement and the solution out of a wiki
// problem page.
//
// # Architecture
//
// Extraction runs in two phases:
//
//  1. Prepare: locate the "div.mw-parser-output" container, re-parse it as
//     a standalone fragment and strip the table of contents, remembering
//     whether one was present.
//  2. Partition: run once per view (problem, solution) on a private copy of
//     the fragment, walking the children of the element that holds the
//     solution heading and deleting the half that does not belong to the view.
//
// # Anchor strategies
//
// Pages name their solution heading inconsistently. The solution anchor is
// found by trying a ranked list of AnchorStrategy values in order: known
// identifiers first ("Solution", "Solution_1"), then the second
// ".mw-headline" heading marker by position. The list is data, so it can be
// tested and extended without touching the tree walking code.
//
// Design decision: We use goquery for selection and golang.org/x/net/html for
// tree surgery because:
//  1. CSS selectors express the lookups exactly as the page structure reads
//  2. Node pointer identity is needed to recognise the solution wrapper
//     while walking siblings
//  3. goquery is a thin layer over x/net/html, so both views share one tree
package extract
