package domain

// Comment is a user comment as returned by the remote source.
type Comment struct {
	ID     string
	Author string
	Body   string
	Score  int
	LinkID string // fullname of the submission the comment was posted under
}

// Submission is a remote submission, reduced to what the bot reads from it.
type Submission struct {
	ID    string
	Score int
}
