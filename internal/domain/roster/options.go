package roster

import "time"

// FormRequest carries the members of a new party to the repository.
type FormRequest struct {
	KnightIDs []int64
	ClientIDs []int64
	FormedAt  time.Time
}
