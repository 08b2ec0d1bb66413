package status

// RepositoryState classifies a repository relative to its upstream branch.
type RepositoryState string

// Repository states reported by the scan.
const (
	StateCurrent   RepositoryState = "current"
	StateNeedsPull RepositoryState = "needs-pull"
	StateNeedsPush RepositoryState = "needs-push"
	StateDiverged  RepositoryState = "diverged"
	StateError     RepositoryState = "error"
)

// RepositoryStatus captures the comparison outcome for a single repository.
type RepositoryStatus struct {
	Path        string          `yaml:"path"`
	Branch      string          `yaml:"branch,omitempty"`
	LocalHash   string          `yaml:"local_hash,omitempty"`
	RemoteHash  string          `yaml:"remote_hash,omitempty"`
	BaseHash    string          `yaml:"base_hash,omitempty"`
	AheadCount  int             `yaml:"ahead_count"`
	BehindCount int             `yaml:"behind_count"`
	State       RepositoryState `yaml:"state"`
	Reason      string          `yaml:"reason,omitempty"`
}

// Summary aggregates per-state repository counts for a completed scan.
type Summary struct {
	Scanned   int `yaml:"scanned"`
	Current   int `yaml:"current"`
	NeedsPull int `yaml:"needs_pull"`
	NeedsPush int `yaml:"needs_push"`
	Diverged  int `yaml:"diverged"`
	Errors    int `yaml:"errors"`
}

// Record increments the counter matching the provided repository status.
func (summary *Summary) Record(repositoryStatus RepositoryStatus) {
	summary.Scanned++
	switch repositoryStatus.State {
	case StateCurrent:
		summary.Current++
	case StateNeedsPull:
		summary.NeedsPull++
	case StateNeedsPush:
		summary.NeedsPush++
	case StateDiverged:
		summary.Diverged++
	default:
		summary.Errors++
	}
}

// ActionableCount reports how many repositories require a pull, push, or manual merge.
func (summary Summary) ActionableCount() int {
	return summary.NeedsPull + summary.NeedsPush + summary.Diverged
}
