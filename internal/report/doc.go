// Package report renders osintdata results.
//
// Three kinds of result are rendered: the Summary of a dataset load, the
// list of recorded load runs, and OSINT lookup results. Each has a text,
// JSON and Markdown rendering:
//   - TextWriter: plain text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown for sharing
//
// Writers implement the Writer interface, so they can be used
// interchangeably and combined with MultiWriter.
package report
