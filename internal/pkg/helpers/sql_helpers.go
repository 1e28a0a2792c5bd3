package helpers

// NullIfEmpty converts an empty string to a NULL parameter for pgx.
func NullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
