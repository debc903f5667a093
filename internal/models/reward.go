package models

// RewardKind is the closed set of reward categories. Each carries a fixed
// {xp, coins} payload so reward amounts are never looked up by loose
// string tags at call sites.
type RewardKind string

const (
	RewardTreePlanting     RewardKind = "tree_planting"
	RewardRecycling        RewardKind = "recycling"
	RewardEnergySaving     RewardKind = "energy_saving"
	RewardWaterSaving      RewardKind = "water_conservation"
	RewardTransport        RewardKind = "sustainable_transport"
	RewardCommunityCleanup RewardKind = "community_cleanup"
	RewardEducation        RewardKind = "climate_education"
)

type RewardPayload struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

func (k RewardKind) Valid() bool {
	_, ok := rewardPayloads[k]
	return ok
}

// Payload returns the fixed reward for a category; zero payload for an
// unknown kind.
func (k RewardKind) Payload() RewardPayload {
	return rewardPayloads[k]
}

// RewardKinds lists every known category.
func RewardKinds() []RewardKind {
	kinds := make([]RewardKind, 0, len(rewardPayloads))
	for kind := range rewardPayloads {
		kinds = append(kinds, kind)
	}
	return kinds
}

var rewardPayloads = map[RewardKind]RewardPayload{
	RewardTreePlanting:     {XP: 50, Coins: 10},
	RewardRecycling:        {XP: 20, Coins: 5},
	RewardEnergySaving:     {XP: 30, Coins: 8},
	RewardWaterSaving:      {XP: 25, Coins: 6},
	RewardTransport:        {XP: 35, Coins: 8},
	RewardCommunityCleanup: {XP: 60, Coins: 15},
	RewardEducation:        {XP: 15, Coins: 4},
}

// LevelBonusCoins is the cascading currency grant paid when an experience
// grant raises the level. Paid once per grant, for the final level reached.
func LevelBonusCoins(newLevel int) int {
	return newLevel * 10
}
