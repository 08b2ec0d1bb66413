package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const gitMetadataEntryNameConstant = ".git"

// FilesystemRepositoryDiscoverer locates git repositories on disk.
//
// Both .git directories and .git files are recognized so linked worktrees and
// submodule checkouts appear in scan results.
type FilesystemRepositoryDiscoverer struct{}

// NewFilesystemRepositoryDiscoverer constructs a repository discoverer backed by filepath.WalkDir.
func NewFilesystemRepositoryDiscoverer() *FilesystemRepositoryDiscoverer {
	return &FilesystemRepositoryDiscoverer{}
}

// DiscoverRepositories walks the provided roots and returns a sorted,
// deduplicated list of directories containing a .git entry. Unreadable
// subtrees are skipped rather than aborting the walk.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	seenRepositories := make(map[string]struct{})
	var repositoryPaths []string

	for _, rootDirectory := range roots {
		trimmedRootDirectory := strings.TrimSpace(rootDirectory)
		if len(trimmedRootDirectory) == 0 {
			continue
		}

		walkError := filepath.WalkDir(trimmedRootDirectory, func(entryPath string, directoryEntry fs.DirEntry, entryError error) error {
			if entryError != nil {
				return nil
			}

			if directoryEntry.Name() != gitMetadataEntryNameConstant {
				return nil
			}

			repositoryPath := filepath.Dir(entryPath)
			if _, alreadySeen := seenRepositories[repositoryPath]; !alreadySeen {
				seenRepositories[repositoryPath] = struct{}{}
				repositoryPaths = append(repositoryPaths, repositoryPath)
			}

			if directoryEntry.IsDir() {
				return fs.SkipDir
			}
			return nil
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	sort.Strings(repositoryPaths)
	return repositoryPaths, nil
}
