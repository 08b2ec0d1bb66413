package flags_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tavrik/repostate/internal/utils/flags"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name          string
		defaultChoice string
		choices       []string
		description   string
		expectedUsage string
	}{
		{
			name:          "default_choice_capitalized",
			defaultChoice: "terminal",
			choices:       []string{"terminal", "system", "both"},
			description:   "notification method",
			expectedUsage: "`<TERMINAL|system|both>` notification method",
		},
		{
			name:          "empty_description_omitted",
			defaultChoice: "table",
			choices:       []string{"table", "csv", "yaml"},
			expectedUsage: "`<TABLE|csv|yaml>`",
		},
		{
			name:          "duplicates_and_blanks_removed",
			defaultChoice: "csv",
			choices:       []string{"table", " ", "csv", "CSV"},
			description:   "report format",
			expectedUsage: "`<table|CSV>` report format",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedUsage, flags.FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}
