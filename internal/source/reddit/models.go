package reddit

// listing is the envelope Reddit wraps around comment and submission queries.
type listing struct {
	Data struct {
		Children []child `json:"children"`
	} `json:"data"`
}

type child struct {
	Kind string    `json:"kind"`
	Data childData `json:"data"`
}

// childData covers the fields the bot reads from both t1 (comment) and
// t3 (submission) things.
type childData struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Body   string `json:"body"`
	Score  int    `json:"score"`
	LinkID string `json:"link_id"`
}

type loginResponse struct {
	JSON struct {
		Errors [][]string `json:"errors"`
		Data   struct {
			Modhash string `json:"modhash"`
			Cookie  string `json:"cookie"`
		} `json:"data"`
	} `json:"json"`
}

type editResponse struct {
	JSON struct {
		Errors [][]string `json:"errors"`
	} `json:"json"`
}
