package status

import "strings"

// Comparison carries the commit identifiers and commit counts gathered for one repository.
// Empty hash values mean the corresponding revision was unavailable.
type Comparison struct {
	LocalHash   string
	RemoteHash  string
	BaseHash    string
	AheadCount  int
	BehindCount int
}

// Classify maps equality relations among the local, remote, and merge-base
// hashes onto a repository state. The relation is total: any combination of
// inputs yields exactly one state.
func Classify(comparison Comparison) RepositoryState {
	localHash := strings.TrimSpace(comparison.LocalHash)
	remoteHash := strings.TrimSpace(comparison.RemoteHash)
	baseHash := strings.TrimSpace(comparison.BaseHash)

	if len(remoteHash) == 0 || len(localHash) == 0 {
		return StateError
	}

	switch {
	case localHash == remoteHash:
		return StateCurrent
	case localHash == baseHash:
		return StateNeedsPull
	case remoteHash == baseHash:
		return StateNeedsPush
	default:
		return StateDiverged
	}
}

// Resolve builds the full repository status for a path from comparison data,
// zeroing whichever commit counts the classified state does not define.
func Resolve(repositoryPath string, branchName string, comparison Comparison) RepositoryStatus {
	state := Classify(comparison)

	repositoryStatus := RepositoryStatus{
		Path:       repositoryPath,
		Branch:     branchName,
		LocalHash:  strings.TrimSpace(comparison.LocalHash),
		RemoteHash: strings.TrimSpace(comparison.RemoteHash),
		BaseHash:   strings.TrimSpace(comparison.BaseHash),
		State:      state,
	}

	switch state {
	case StateNeedsPull:
		repositoryStatus.BehindCount = comparison.BehindCount
	case StateNeedsPush:
		repositoryStatus.AheadCount = comparison.AheadCount
	case StateDiverged:
		repositoryStatus.AheadCount = comparison.AheadCount
		repositoryStatus.BehindCount = comparison.BehindCount
	}

	return repositoryStatus
}
