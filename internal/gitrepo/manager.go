package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tavrik/repostate/internal/execshell"
)

const (
	executorMissingMessageConstant              = "git executor not configured"
	repositoryPathRequiredMessageConstant       = "repository path must be provided"
	revisionRequiredMessageConstant             = "revision must be provided"
	branchLookupFailureTemplateConstant         = "failed to determine current branch in %s: %w"
	upstreamLookupFailureTemplateConstant       = "failed to resolve upstream branch in %s: %w"
	revisionLookupFailureTemplateConstant       = "failed to resolve revision %s in %s: %w"
	mergeBaseFailureTemplateConstant            = "failed to locate merge base of %s and %s in %s: %w"
	commitCountFailureTemplateConstant          = "failed to count commits in range %s in %s: %w"
	commitCountParseFailureTemplateConstant     = "unexpected commit count output %q in %s: %w"
	fetchFailureTemplateConstant                = "failed to fetch from %s in %s: %w"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitRevListSubcommandConstant                = "rev-list"
	gitMergeBaseSubcommandConstant              = "merge-base"
	gitFetchSubcommandConstant                  = "fetch"
	gitInsideWorkTreeFlagConstant               = "--is-inside-work-tree"
	gitAbbreviatedReferenceFlagConstant         = "--abbrev-ref"
	gitSymbolicFullNameFlagConstant             = "--symbolic-full-name"
	gitCountFlagConstant                        = "--count"
	gitHeadRevisionConstant                     = "HEAD"
	gitUpstreamRevisionConstant                 = "@{u}"
	gitInsideWorkTreeOutputConstant             = "true"
	gitCommitRangeTemplateConstant              = "%s..%s"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path argument was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrRevisionRequired indicates a revision argument was empty.
var ErrRevisionRequired = errors.New(revisionRequiredMessageConstant)

// GitExecutor exposes the subset of shell execution used by repository inspection.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs repository-level git operations through a GitExecutor.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsGitRepository reports whether the path sits inside a git work tree.
func (manager *RepositoryManager) IsGitRepository(executionContext context.Context, repositoryPath string) bool {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return false
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitInsideWorkTreeFlagConstant},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return false
	}
	return strings.TrimSpace(executionResult.StandardOutput) == gitInsideWorkTreeOutputConstant
}

// GetCurrentBranch resolves the abbreviated name of the checked out branch.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbreviatedReferenceFlagConstant, gitHeadRevisionConstant},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(branchLookupFailureTemplateConstant, trimmedRepositoryPath, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// GetUpstreamBranch resolves the configured upstream of the checked out branch.
// Repositories without an upstream return an error from git itself.
func (manager *RepositoryManager) GetUpstreamBranch(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			gitRevParseSubcommandConstant,
			gitAbbreviatedReferenceFlagConstant,
			gitSymbolicFullNameFlagConstant,
			gitUpstreamRevisionConstant,
		},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(upstreamLookupFailureTemplateConstant, trimmedRepositoryPath, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// ResolveRevision resolves a revision expression to a full commit hash.
func (manager *RepositoryManager) ResolveRevision(executionContext context.Context, repositoryPath string, revision string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}
	trimmedRevision := strings.TrimSpace(revision)
	if len(trimmedRevision) == 0 {
		return "", ErrRevisionRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, trimmedRevision},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(revisionLookupFailureTemplateConstant, trimmedRevision, trimmedRepositoryPath, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// MergeBase resolves the best common ancestor of two revisions.
func (manager *RepositoryManager) MergeBase(executionContext context.Context, repositoryPath string, firstRevision string, secondRevision string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}
	trimmedFirstRevision := strings.TrimSpace(firstRevision)
	trimmedSecondRevision := strings.TrimSpace(secondRevision)
	if len(trimmedFirstRevision) == 0 || len(trimmedSecondRevision) == 0 {
		return "", ErrRevisionRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitMergeBaseSubcommandConstant, trimmedFirstRevision, trimmedSecondRevision},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(mergeBaseFailureTemplateConstant, trimmedFirstRevision, trimmedSecondRevision, trimmedRepositoryPath, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// CountCommits counts commits reachable from endRevision but not startRevision.
func (manager *RepositoryManager) CountCommits(executionContext context.Context, repositoryPath string, startRevision string, endRevision string) (int, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return 0, ErrRepositoryPathRequired
	}
	trimmedStartRevision := strings.TrimSpace(startRevision)
	trimmedEndRevision := strings.TrimSpace(endRevision)
	if len(trimmedStartRevision) == 0 || len(trimmedEndRevision) == 0 {
		return 0, ErrRevisionRequired
	}

	commitRange := fmt.Sprintf(gitCommitRangeTemplateConstant, trimmedStartRevision, trimmedEndRevision)
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevListSubcommandConstant, gitCountFlagConstant, commitRange},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return 0, fmt.Errorf(commitCountFailureTemplateConstant, commitRange, trimmedRepositoryPath, executionError)
	}

	countOutput := strings.TrimSpace(executionResult.StandardOutput)
	commitCount, parseError := strconv.Atoi(countOutput)
	if parseError != nil {
		return 0, fmt.Errorf(commitCountParseFailureTemplateConstant, countOutput, trimmedRepositoryPath, parseError)
	}
	return commitCount, nil
}

// Fetch refreshes remote tracking references. An empty remote name fetches
// from all configured remotes. Credential prompts are disabled so unreachable
// remotes fail instead of blocking the scan.
func (manager *RepositoryManager) Fetch(executionContext context.Context, repositoryPath string, remoteName string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}

	fetchArguments := []string{gitFetchSubcommandConstant}
	fetchTarget := "all remotes"
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) > 0 {
		fetchArguments = append(fetchArguments, trimmedRemoteName)
		fetchTarget = trimmedRemoteName
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        fetchArguments,
		WorkingDirectory: trimmedRepositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
	if executionError != nil {
		return fmt.Errorf(fetchFailureTemplateConstant, fetchTarget, trimmedRepositoryPath, executionError)
	}
	return nil
}
