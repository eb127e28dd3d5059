package domain

// SeedConfig describes the baseline data every user gets on first use. It is
// passed into the bootstrap service explicitly so tests can substitute
// alternate seed sets.
type SeedConfig struct {
	AccountName     string
	AccountCurrency string
	IncomeNames     []string
	ExpenseNames    []string
}

// DefaultSeedConfig returns the standard seed set: one "Main" EUR account,
// three income categories and five expense categories.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		AccountName:     "Main",
		AccountCurrency: "EUR",
		IncomeNames:     []string{"Salary", "Bonus", "Interest"},
		ExpenseNames:    []string{"Food", "Transport", "Rent", "Utilities", "Entertainment"},
	}
}
