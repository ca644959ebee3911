package domain

// BuiltinCatalog returns the four pricing tiers the product ships with.
// Seeding inserts them once; the in-memory catalog serves them directly.
func BuiltinCatalog() []Plan {
	return []Plan{
		{Code: "starter", Name: "Starter", PerOrderFeeCents: 120, CreditAllotment: 0, BonusCredits: 0, Active: true},
		{Code: "standard", Name: "Standard", PerOrderFeeCents: 98, CreditAllotment: 100, BonusCredits: 10, Active: true},
		{Code: "premium", Name: "Premium", PerOrderFeeCents: 86, CreditAllotment: 250, BonusCredits: 35, Active: true},
		{Code: "unlimited", Name: "Unlimited", PerOrderFeeCents: 75, CreditAllotment: 600, BonusCredits: 100, Active: true},
	}
}
