package db

// Live is the predicate every default read applies so soft-deleted rows stay hidden.
const Live = "is_deleted = FALSE"

// LiveAnd prefixes a WHERE condition with the soft-delete predicate.
func LiveAnd(cond string) string {
	if cond == "" {
		return Live
	}
	return Live + " AND " + cond
}
