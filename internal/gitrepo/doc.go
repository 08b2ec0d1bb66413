// Package gitrepo contains helpers for interrogating Git repositories.
//
// It exposes RepositoryManager for resolving branches, upstreams, revisions,
// and commit counts through a shared git executor.
package gitrepo
