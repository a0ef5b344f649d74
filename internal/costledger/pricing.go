package costledger

// DefaultPricingTable returns a starter pricing table with at least two
// tiers (a cheap tier and a premium tier) so routing has something
// meaningful to choose between out of the box.
func DefaultPricingTable() []ModelPricing {
	return []ModelPricing{
		{ModelID: "cheap", InputTokenCost: 0.0005, OutputTokenCost: 0.0015},
		{ModelID: "premium", InputTokenCost: 0.015, OutputTokenCost: 0.075},
	}
}
