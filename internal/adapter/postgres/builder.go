package postgres

import "github.com/Masterminds/squirrel"

// Builder is the squirrel statement builder configured for PostgreSQL placeholders.
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Page applies limit/offset to a select, clamping limit into [1, maxLimit].
func Page(q squirrel.SelectBuilder, limit, offset, maxLimit int) squirrel.SelectBuilder {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return q.Limit(uint64(limit)).Offset(uint64(offset))
}
