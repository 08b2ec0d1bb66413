package scan

import (
	"context"

	"github.com/tavrik/repostate/internal/discovery"
	"github.com/tavrik/repostate/internal/execshell"
)

// RepositoryDiscoverer finds git repositories rooted under the provided paths.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// ScanExecutor exposes the subset of shell execution used by the scan command.
type ScanExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteNotifySend(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteOSAScript(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryInspector exposes the repository-level git operations consumed by
// the scan service.
type RepositoryInspector interface {
	IsGitRepository(executionContext context.Context, repositoryPath string) bool
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	GetUpstreamBranch(executionContext context.Context, repositoryPath string) (string, error)
	ResolveRevision(executionContext context.Context, repositoryPath string, revision string) (string, error)
	MergeBase(executionContext context.Context, repositoryPath string, firstRevision string, secondRevision string) (string, error)
	CountCommits(executionContext context.Context, repositoryPath string, startRevision string, endRevision string) (int, error)
	Fetch(executionContext context.Context, repositoryPath string, remoteName string) error
}

func newDefaultDiscoverer() RepositoryDiscoverer {
	return discovery.NewFilesystemRepositoryDiscoverer()
}
