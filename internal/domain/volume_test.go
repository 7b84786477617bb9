package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func blockOf(activities ...Activity) Block {
	return Block{
		Name:  "block-1",
		Weeks: []Week{{Days: []Day{{DayOfWeek: 1, Activities: activities}}}},
	}
}

func TestVolumeDistributionSingleGroup(t *testing.T) {
	block := blockOf(Activity{TemplateID: "tpl-squat", Type: ActivityTypeStrength, Sets: 5, Reps: 5})
	groups := ActivityGroupMap{"tpl-squat": "squat"}

	require.Equal(t, map[string]int{"squat": 100}, VolumeDistribution(block, groups))
}

func TestVolumeDistributionEqualSplit(t *testing.T) {
	block := blockOf(
		Activity{TemplateID: "tpl-squat", Type: ActivityTypeStrength, Sets: 5, Reps: 5},
		Activity{TemplateID: "tpl-bench", Type: ActivityTypeStrength, Sets: 5, Reps: 5},
	)
	groups := ActivityGroupMap{"tpl-squat": "squat", "tpl-bench": "bench"}

	require.Equal(t, map[string]int{"squat": 50, "bench": 50}, VolumeDistribution(block, groups))
}

func TestVolumeDistributionOnlyNonStrengthWork(t *testing.T) {
	block := blockOf(
		Activity{TemplateID: "tpl-row", Type: ActivityTypeConditioning},
		Activity{TemplateID: "tpl-fms", Type: ActivityTypeDiagnostic},
	)
	groups := ActivityGroupMap{"tpl-row": "conditioning", "tpl-fms": "diagnostic"}

	require.Empty(t, VolumeDistribution(block, groups))
}

func TestVolumeDistributionSkipsUnmappedAndIncompleteActivities(t *testing.T) {
	block := blockOf(
		Activity{TemplateID: "tpl-squat", Type: ActivityTypeStrength, Sets: 3, Reps: 10},
		// Unknown template: excluded silently.
		Activity{TemplateID: "tpl-mystery", Type: ActivityTypeStrength, Sets: 10, Reps: 10},
		// Missing reps: excluded silently.
		Activity{TemplateID: "tpl-squat", Type: ActivityTypeStrength, Sets: 3},
	)
	groups := ActivityGroupMap{"tpl-squat": "squat"}

	require.Equal(t, map[string]int{"squat": 100}, VolumeDistribution(block, groups))
}

func TestVolumeDistributionIndependentRounding(t *testing.T) {
	// 1/3 splits round to 33+33+33; the sum deliberately stays under 100.
	block := blockOf(
		Activity{TemplateID: "tpl-a", Type: ActivityTypeStrength, Sets: 1, Reps: 10},
		Activity{TemplateID: "tpl-b", Type: ActivityTypeStrength, Sets: 1, Reps: 10},
		Activity{TemplateID: "tpl-c", Type: ActivityTypeStrength, Sets: 1, Reps: 10},
	)
	groups := ActivityGroupMap{"tpl-a": "a", "tpl-b": "b", "tpl-c": "c"}

	require.Equal(t, map[string]int{"a": 33, "b": 33, "c": 33}, VolumeDistribution(block, groups))
}

func TestVolumeDistributionSpansWeeksAndDays(t *testing.T) {
	block := Block{
		Name: "accumulation",
		Weeks: []Week{
			{Days: []Day{
				{DayOfWeek: 1, Activities: []Activity{{TemplateID: "tpl-squat", Type: ActivityTypeStrength, Sets: 3, Reps: 5}}},
				{DayOfWeek: 3, Activities: []Activity{{TemplateID: "tpl-bench", Type: ActivityTypeStrength, Sets: 3, Reps: 5}}},
			}},
			{Days: []Day{
				{DayOfWeek: 1, Activities: []Activity{{TemplateID: "tpl-squat", Type: ActivityTypeStrength, Sets: 6, Reps: 5}}},
			}},
		},
	}
	groups := ActivityGroupMap{"tpl-squat": "squat", "tpl-bench": "bench"}

	// squat 45 of 60 total, bench 15 of 60.
	require.Equal(t, map[string]int{"squat": 75, "bench": 25}, VolumeDistribution(block, groups))
}

func TestBuildGroupMapSkipsUnlabelledTemplates(t *testing.T) {
	templates := []ActivityTemplate{
		{ID: "tpl-squat", Group: "squat"},
		{ID: "tpl-row", Group: ""},
	}

	groups := BuildGroupMap(templates)
	require.Equal(t, ActivityGroupMap{"tpl-squat": "squat"}, groups)
}
