package models

// All lists every persisted model in dependency order, for sqlite schema
// bootstrapping where the Postgres SQL migrations cannot run.
func All() []any {
	return []any{
		&Product{},
		&Store{},
		&StoreStock{},
		&SauceStock{},
		&Sale{},
		&SaleLine{},
		&ExpenseCategory{},
		&Expense{},
	}
}
