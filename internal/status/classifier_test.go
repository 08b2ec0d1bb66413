package status_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tavrik/repostate/internal/status"
)

const (
	testLocalHashConstant  = "1111111111111111111111111111111111111111"
	testRemoteHashConstant = "2222222222222222222222222222222222222222"
	testBaseHashConstant   = "3333333333333333333333333333333333333333"
	testRepositoryPath     = "/home/user/projects/sample"
	testBranchNameConstant = "main"
)

func TestClassify(testInstance *testing.T) {
	testCases := []struct {
		name          string
		comparison    status.Comparison
		expectedState status.RepositoryState
	}{
		{
			name: "hashes_equal_reports_current",
			comparison: status.Comparison{
				LocalHash:  testLocalHashConstant,
				RemoteHash: testLocalHashConstant,
				BaseHash:   testLocalHashConstant,
			},
			expectedState: status.StateCurrent,
		},
		{
			name: "local_at_base_reports_needs_pull",
			comparison: status.Comparison{
				LocalHash:  testBaseHashConstant,
				RemoteHash: testRemoteHashConstant,
				BaseHash:   testBaseHashConstant,
			},
			expectedState: status.StateNeedsPull,
		},
		{
			name: "remote_at_base_reports_needs_push",
			comparison: status.Comparison{
				LocalHash:  testLocalHashConstant,
				RemoteHash: testBaseHashConstant,
				BaseHash:   testBaseHashConstant,
			},
			expectedState: status.StateNeedsPush,
		},
		{
			name: "distinct_hashes_report_diverged",
			comparison: status.Comparison{
				LocalHash:  testLocalHashConstant,
				RemoteHash: testRemoteHashConstant,
				BaseHash:   testBaseHashConstant,
			},
			expectedState: status.StateDiverged,
		},
		{
			name: "missing_remote_hash_reports_error",
			comparison: status.Comparison{
				LocalHash: testLocalHashConstant,
			},
			expectedState: status.StateError,
		},
		{
			name: "missing_local_hash_reports_error",
			comparison: status.Comparison{
				RemoteHash: testRemoteHashConstant,
			},
			expectedState: status.StateError,
		},
		{
			name: "whitespace_only_remote_hash_reports_error",
			comparison: status.Comparison{
				LocalHash:  testLocalHashConstant,
				RemoteHash: "  \n",
			},
			expectedState: status.StateError,
		},
		{
			name: "trailing_newlines_do_not_affect_equality",
			comparison: status.Comparison{
				LocalHash:  testLocalHashConstant + "\n",
				RemoteHash: testLocalHashConstant,
				BaseHash:   testLocalHashConstant + "\n",
			},
			expectedState: status.StateCurrent,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedState, status.Classify(testCase.comparison))
		})
	}
}

func TestResolveZeroesCountsOutsideClassifiedState(testInstance *testing.T) {
	testCases := []struct {
		name           string
		comparison     status.Comparison
		expectedState  status.RepositoryState
		expectedAhead  int
		expectedBehind int
	}{
		{
			name: "current_reports_no_counts",
			comparison: status.Comparison{
				LocalHash:   testLocalHashConstant,
				RemoteHash:  testLocalHashConstant,
				BaseHash:    testLocalHashConstant,
				AheadCount:  4,
				BehindCount: 2,
			},
			expectedState: status.StateCurrent,
		},
		{
			name: "needs_pull_keeps_behind_count_only",
			comparison: status.Comparison{
				LocalHash:   testBaseHashConstant,
				RemoteHash:  testRemoteHashConstant,
				BaseHash:    testBaseHashConstant,
				AheadCount:  4,
				BehindCount: 2,
			},
			expectedState:  status.StateNeedsPull,
			expectedBehind: 2,
		},
		{
			name: "needs_push_keeps_ahead_count_only",
			comparison: status.Comparison{
				LocalHash:   testLocalHashConstant,
				RemoteHash:  testBaseHashConstant,
				BaseHash:    testBaseHashConstant,
				AheadCount:  4,
				BehindCount: 2,
			},
			expectedState: status.StateNeedsPush,
			expectedAhead: 4,
		},
		{
			name: "diverged_keeps_both_counts",
			comparison: status.Comparison{
				LocalHash:   testLocalHashConstant,
				RemoteHash:  testRemoteHashConstant,
				BaseHash:    testBaseHashConstant,
				AheadCount:  4,
				BehindCount: 2,
			},
			expectedState:  status.StateDiverged,
			expectedAhead:  4,
			expectedBehind: 2,
		},
		{
			name: "error_reports_no_counts",
			comparison: status.Comparison{
				LocalHash:   testLocalHashConstant,
				AheadCount:  4,
				BehindCount: 2,
			},
			expectedState: status.StateError,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedStatus := status.Resolve(testRepositoryPath, testBranchNameConstant, testCase.comparison)
			require.Equal(testInstance, testCase.expectedState, resolvedStatus.State)
			require.Equal(testInstance, testCase.expectedAhead, resolvedStatus.AheadCount)
			require.Equal(testInstance, testCase.expectedBehind, resolvedStatus.BehindCount)
			require.Equal(testInstance, testRepositoryPath, resolvedStatus.Path)
			require.Equal(testInstance, testBranchNameConstant, resolvedStatus.Branch)
		})
	}
}

func TestSummaryRecordCountsEveryState(testInstance *testing.T) {
	var summary status.Summary
	for _, state := range []status.RepositoryState{
		status.StateCurrent,
		status.StateNeedsPull,
		status.StateNeedsPush,
		status.StateDiverged,
		status.StateDiverged,
		status.StateError,
	} {
		summary.Record(status.RepositoryStatus{State: state})
	}

	require.Equal(testInstance, 6, summary.Scanned)
	require.Equal(testInstance, 1, summary.Current)
	require.Equal(testInstance, 1, summary.NeedsPull)
	require.Equal(testInstance, 1, summary.NeedsPush)
	require.Equal(testInstance, 2, summary.Diverged)
	require.Equal(testInstance, 1, summary.Errors)
	require.Equal(testInstance, 4, summary.ActionableCount())
}
