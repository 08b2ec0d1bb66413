// Package status defines the repository state model and the pure
// classification routine comparing local, remote, and merge-base revisions.
package status
