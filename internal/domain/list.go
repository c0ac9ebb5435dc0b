package domain

// ListQuery selects a page of live tasks.
// A nil Text lists every live task.
type ListQuery struct {
	Text   *string
	Offset int
	Limit  int
}

// TaskPage is one page of a listing. Total counts every match, not just
// the tasks on this page.
type TaskPage struct {
	Tasks  []Task `json:"tasks"`
	Total  int64  `json:"total"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}
