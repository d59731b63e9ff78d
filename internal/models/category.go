package models

// Category classifies an XP-granting event. All badge qualification and
// once-per-day checks key off the category, never off the display detail.
type Category string

const (
	CategoryCreateNFT       Category = "CreateNFT"
	CategorySwap            Category = "Swap"
	CategoryBuyNFT          Category = "BuyNFT"
	CategorySellNFT         Category = "SellNFT"
	CategoryDailyLogin      Category = "DailyLogin"
	CategoryShareProject    Category = "ShareProject"
	CategoryClaimGenesisSBT Category = "ClaimGenesisSBT"
	CategoryListNFT         Category = "ListNFT"
	CategoryBadgeGrant      Category = "BadgeGrant"
)

// CategoryRewards is the fixed base reward per category.
var CategoryRewards = map[Category]int64{
	CategoryCreateNFT:       100,
	CategorySwap:            100,
	CategoryBuyNFT:          100,
	CategorySellNFT:         100,
	CategoryDailyLogin:      100,
	CategoryShareProject:    100,
	CategoryClaimGenesisSBT: 500,
	CategoryListNFT:         50,
}

// periodic categories allow at most one successful award per UTC calendar day
var periodicCategories = map[Category]bool{
	CategoryDailyLogin:   true,
	CategoryShareProject: true,
}

func (c Category) Valid() bool {
	if c == CategoryBadgeGrant {
		return true
	}
	_, ok := CategoryRewards[c]
	return ok
}

func (c Category) Periodic() bool {
	return periodicCategories[c]
}

// GlobalXPPool is the configured total pool size used by the global stats
// "remaining" figure. Awards only add, so remaining never goes negative.
const GlobalXPPool int64 = 100_000_000_000
