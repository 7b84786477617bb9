package domain

import "math"

// ActivityGroupMap resolves an activity template id to its activity group label.
type ActivityGroupMap map[string]string

// BuildGroupMap derives the template-to-group lookup from a tenant's activity
// templates. Templates without a group label are left out.
func BuildGroupMap(templates []ActivityTemplate) ActivityGroupMap {
	out := make(ActivityGroupMap, len(templates))
	for _, tpl := range templates {
		if tpl.Group != "" {
			out[tpl.ID] = tpl.Group
		}
	}
	return out
}

// VolumeDistribution computes, for one program block, the share of total
// strength volume (sets × reps) attributable to each activity group.
//
// Only strength activities with positive sets and reps whose template resolves
// through the group map carry volume; conditioning and diagnostic work weighs
// nothing. Percentages are rounded to the nearest integer independently per
// group, so the returned values may not sum to exactly 100. A block with no
// counted volume yields an empty map.
func VolumeDistribution(block Block, groups ActivityGroupMap) map[string]int {
	totals := make(map[string]int)
	grand := 0
	for _, week := range block.Weeks {
		for _, day := range week.Days {
			for _, act := range day.Activities {
				if act.Type != ActivityTypeStrength || act.Sets <= 0 || act.Reps <= 0 {
					continue
				}
				group, ok := groups[act.TemplateID]
				if !ok {
					continue
				}
				volume := act.Sets * act.Reps
				totals[group] += volume
				grand += volume
			}
		}
	}
	out := make(map[string]int, len(totals))
	if grand == 0 {
		return out
	}
	for group, total := range totals {
		out[group] = int(math.Round(float64(total) / float64(grand) * 100))
	}
	return out
}
