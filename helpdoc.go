// Package helpdoc extracts the article body from help-center HTML pages and
// re-renders it as JSON, Markdown with front matter, or flattened plain text
// for downstream indexing and language-model ingestion.
//
// This package contains domain types, interfaces and the pure text
// transforms of the pipeline, following Ben Johnson's Standard Package
// Layout. Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, htmltomarkdown/, readability/, gin/).
package helpdoc
