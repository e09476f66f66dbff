package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	SubjectID    *int64
	ActivityType *ActivityType
	Limit        int
}
