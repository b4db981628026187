package core

// Fixed category lists, one per transaction type. The lists are an
// application-layer contract; storage accepts any category text.
var (
	IncomeCategories = []string{
		"Salary", "Freelance", "Investment", "Business", "Gift", "Other",
	}
	ExpenseCategories = []string{
		"Food", "Rent", "Transportation", "Entertainment", "Healthcare",
		"Shopping", "Utilities", "Education", "Travel", "Other",
	}
)

// CategoriesFor returns the allowed category list for a transaction type.
func CategoriesFor(t TransactionType) []string {
	if t == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

// CategoryAt resolves a 1-based menu selection into a category name.
func CategoryAt(t TransactionType, choice int) (string, error) {
	cats := CategoriesFor(t)
	if choice < 1 || choice > len(cats) {
		return "", ErrInvalidCategory
	}
	return cats[choice-1], nil
}

// ValidCategory reports whether name is in the list for the given type.
func ValidCategory(t TransactionType, name string) bool {
	for _, c := range CategoriesFor(t) {
		if c == name {
			return true
		}
	}
	return false
}
