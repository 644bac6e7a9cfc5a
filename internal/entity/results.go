package entity

// Preview is what a voter sees: the election with its questions and the
// organisation running it.
type Preview struct {
	ID       ID       `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	OrgType  string   `json:"orgtype"`
	OrgName  string   `json:"orgname"`
	Election Election `json:"election"`
}

type Results struct {
	ID       ID       `json:"id"`
	OrgName  string   `json:"orgname"`
	Election Election `json:"election"`
}

func (r Results) TotalVotes() int {
	return TotalVotes(r.Election.Questions)
}

// TotalVotes sums every option tally of every question.
func TotalVotes(questions []Question) int {
	total := 0
	for _, q := range questions {
		total += q.TotalVotes()
	}
	return total
}
