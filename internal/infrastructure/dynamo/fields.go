package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldAttempts = "attempts"
	fieldIsUsed   = "is_used"
	fieldUsedAt   = "used_at"
)
