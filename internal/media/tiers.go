package media

// Account tiers. Ceilings live in a table so adding a tier is a data
// change, not new branching.
const (
	TierStandard = "standard"
	TierPremium  = "premium"
)

var sizeCeilings = map[string]int64{
	TierStandard: 5 * 1024 * 1024,
	TierPremium:  50 * 1024 * 1024,
}

// SizeCeiling returns the per-file byte ceiling for a tier. Unknown
// tiers get the standard ceiling.
func SizeCeiling(tier string) int64 {
	if limit, ok := sizeCeilings[tier]; ok {
		return limit
	}
	return sizeCeilings[TierStandard]
}
