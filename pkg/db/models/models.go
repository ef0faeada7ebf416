package models

// All lists every persisted model, in dependency order. Used by the dev
// auto-migration path and by test databases.
func All() []any {
	return []any{
		&Product{},
		&TireVariant{},
		&ComponentVariant{},
		&Placement{},
		&Order{},
		&OrderLine{},
	}
}
