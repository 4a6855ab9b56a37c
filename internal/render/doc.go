// Package render turns harvest results into output documents.
//
// This package contains writers for different output formats:
//   - HTMLWriter: a standalone page with one view (problems or solutions)
//   - MarkdownWriter: a short summary of what was harvested
//   - JSONWriter: the full result for tool integration
//
// Writers implement the Writer interface so they can be used
// interchangeably and composed with MultiWriter.
package render
