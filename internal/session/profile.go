package session

// checklistFields maps each named profile field to its patch sources
// in priority order. Direct field names win over checklist answer
// codes from the onboarding questionnaire.
var checklistFields = []struct {
	field string
	keys  []string
}{
	{"name", []string{"name", "A1"}},
	{"mobility", []string{"mobility", "A2", "A4"}},
	{"activity_range", []string{"activity_range", "A2", "A4"}},
	{"emotion", []string{"emotion", "B1"}},
}

// NormalizeProfile merges a patch over the current profile and maps
// checklist answer codes onto their named fields. Raw patch keys are
// kept alongside the derived fields, so re-applying the same patch
// leaves the profile unchanged.
func NormalizeProfile(current, patch map[string]string) map[string]string {
	normalized := make(map[string]string, len(current)+len(patch))
	for k, v := range current {
		normalized[k] = v
	}
	for k, v := range patch {
		normalized[k] = v
	}

	for _, cf := range checklistFields {
		for _, key := range cf.keys {
			if v := patch[key]; v != "" {
				normalized[cf.field] = v
				break
			}
		}
	}
	return normalized
}
