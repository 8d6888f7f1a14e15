package usecase

// SummaryCacheKey names the cache entry holding the serialized conversation
// summary list for a user. Invalidated whenever a message involving the user
// is appended or marked read.
func SummaryCacheKey(userID string) string {
	return "messaging:summaries:" + userID
}
