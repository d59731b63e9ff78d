package models

const (
	BadgeGenesisHolder    = "Genesis Holder"
	BadgeFirstNFTCreator  = "First NFT Creator"
	BadgeFirstSwap        = "First Swap"
	BadgeStreak7          = "7 Day Streak"
	BadgeStreak30         = "30 Day Streak"
	BadgeSocialInfluencer = "Social Influencer"
)

// BadgeDef is the static definition of a badge; the qualifying rules live in
// the badge evaluator, keyed by the category of the just-recorded event.
type BadgeDef struct {
	Name     string `json:"name"`
	XPReward int64  `json:"xp_reward"`
}

var BadgeRewards = map[string]int64{
	BadgeGenesisHolder:    500,
	BadgeFirstNFTCreator:  200,
	BadgeFirstSwap:        200,
	BadgeStreak7:          1000,
	BadgeStreak30:         5000,
	BadgeSocialInfluencer: 1000,
}

const (
	// streak thresholds for the DailyLogin badges
	StreakBadge7Days  = 7
	StreakBadge30Days = 30

	// shares needed for Social Influencer
	SocialInfluencerShares = 5
)
