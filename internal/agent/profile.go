package agent

// Profile is the read-only candidate/job view the agent works from. It is
// assembled by the caller from durable storage; absent fields are simply
// empty and every consumer tolerates that.
type Profile struct {
	CandidateName  string
	CVSummary      string
	CVSkills       []string
	JDSummary      string
	JDRequirements []string
}

// Turn is one persisted question/answer pair, in chronological order when
// passed as a slice.
type Turn struct {
	Question string
	Answer   string
	Feedback string
}
