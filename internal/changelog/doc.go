// Package changelog implements the changelog ingestion and rendering pipeline.
//
// This package implements:
//   - Parsing of authored markdown changelogs ("## [1.2.0] - date", "### Added",
//     "- item") into an ordered Document
//   - JSON and YAML document I/O with insertion-ordered sections
//   - Retrieval from a remote URL or GitHub contents API with local-file fallback
//   - Stale-while-revalidate caching around retrieval
//   - Display-safe HTML formatting of items and terminal output for the CLI
//
// CHANGELOG.json in the plugin repository is the single source of truth for
// the live site; it is produced from CHANGELOG.md with 'openicons changelog convert'.
package changelog
