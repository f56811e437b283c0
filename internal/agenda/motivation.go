package agenda

// Tier is the encouragement level shown over the completed count.
type Tier int

const (
	TierFirstStep Tier = iota
	TierGreatStart
	TierOnFire
	TierMachine
)

// Completed-count thresholds for the tiers and the achievement badge.
const (
	greatStartBelow      = 5
	onFireBelow          = 20
	AchievementThreshold = 10
)

func Motivation(completed int) Tier {
	switch {
	case completed <= 0:
		return TierFirstStep
	case completed < greatStartBelow:
		return TierGreatStart
	case completed < onFireBelow:
		return TierOnFire
	}
	return TierMachine
}

func (t Tier) Message() string {
	switch t {
	case TierFirstStep:
		return "Complete your first task to start building momentum!"
	case TierGreatStart:
		return "Great start! Keep the momentum going!"
	case TierOnFire:
		return "You're on fire! Excellent progress!"
	case TierMachine:
		return "Incredible productivity! You're a task-completing machine!"
	}
	return ""
}

// Achievement reports whether the completed count earns the badge.
func Achievement(completed int) bool {
	return completed >= AchievementThreshold
}
