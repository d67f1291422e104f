package domain

import "strings"

// ActivityType categorizes a scheduled activity. Stored as its display name;
// unknown names parse to ActivityTypeOther so scoring falls through to the
// neutral arm instead of silently missing on casing differences.
type ActivityType string

const (
	ActivityTypeDeepWork         ActivityType = "Deep Work"
	ActivityTypeProjectFocus     ActivityType = "Project Focus"
	ActivityTypeSkillDevelopment ActivityType = "Skill Development"
	ActivityTypePlanning         ActivityType = "Planning"
	ActivityTypeResearch         ActivityType = "Research"
	ActivityTypeLearning         ActivityType = "Learning"
	ActivityTypePractice         ActivityType = "Practice"
	ActivityTypeExercise         ActivityType = "Exercise"
	ActivityTypeMindfulness      ActivityType = "Mindfulness"
	ActivityTypeMeditation       ActivityType = "Meditation"
	ActivityTypeReflection       ActivityType = "Reflection"
	ActivityTypeBreak            ActivityType = "Break"
	ActivityTypeSleep            ActivityType = "Sleep"
	ActivityTypeCooking          ActivityType = "Cooking"
	ActivityTypePartnerTime      ActivityType = "Partner Time"
	ActivityTypeOther            ActivityType = "Other"
)

var knownActivityTypes = []ActivityType{
	ActivityTypeDeepWork,
	ActivityTypeProjectFocus,
	ActivityTypeSkillDevelopment,
	ActivityTypePlanning,
	ActivityTypeResearch,
	ActivityTypeLearning,
	ActivityTypePractice,
	ActivityTypeExercise,
	ActivityTypeMindfulness,
	ActivityTypeMeditation,
	ActivityTypeReflection,
	ActivityTypeBreak,
	ActivityTypeSleep,
	ActivityTypeCooking,
	ActivityTypePartnerTime,
}

// ParseActivityType maps a free-form name onto a known type,
// case-insensitively. Anything unrecognized becomes ActivityTypeOther.
func ParseActivityType(name string) ActivityType {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, t := range knownActivityTypes {
		if strings.ToLower(string(t)) == normalized {
			return t
		}
	}
	return ActivityTypeOther
}

func (t ActivityType) String() string { return string(t) }

// LowerName returns the lowercased display name used by keyword lookups.
func (t ActivityType) LowerName() string { return strings.ToLower(string(t)) }
