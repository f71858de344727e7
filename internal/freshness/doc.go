// Package freshness decides whether every monitored organization has a
// recent export artifact in its storage bucket.
//
// A run lists each involved bucket once, turns the top-level *.zip objects
// into ExportArtifact records, keeps the newest artifact per organization
// and compares it with a cutoff of now minus the window. An organization
// without any artifact is missing, one whose newest artifact predates the
// cutoff is stale. Either state fails the run.
package freshness
