package trigger

import "strings"

// Token is the literal substring that marks a comment as bot-actionable.
const Token = "+PML"

const (
	commentMarker    = "[C]"
	submissionMarker = "[P]"
)

// Mode selects which score a triggered comment asks the bot to record.
type Mode int

const (
	// ModeComment records the comment's own karma.
	ModeComment Mode = iota
	// ModeSubmission records the karma of the submission the comment was
	// posted under.
	ModeSubmission
	// ModeMalformed means a team matched but neither mode marker was
	// present; the comment must be skipped without recording anything.
	ModeMalformed
)

// Result is the classification of one comment body.
type Result struct {
	Triggered bool
	Team      string
	Mode      Mode
}

// Classify matches body against the trigger token, the team tag list and the
// mode markers. Matching is case-insensitive via uppercasing the body, so
// team tags are expected in uppercase. The first tag in teams found as a
// substring wins regardless of its position in the text, and once a team has
// matched no further tags are checked.
func Classify(body string, teams []string) Result {
	upper := strings.ToUpper(body)

	if !strings.Contains(upper, Token) {
		return Result{}
	}

	for _, team := range teams {
		if !strings.Contains(upper, team) {
			continue
		}

		switch {
		case strings.Contains(upper, commentMarker):
			return Result{Triggered: true, Team: team, Mode: ModeComment}
		case strings.Contains(upper, submissionMarker):
			return Result{Triggered: true, Team: team, Mode: ModeSubmission}
		default:
			return Result{Triggered: true, Team: team, Mode: ModeMalformed}
		}
	}

	// Trigger token without a known team tag is ignored.
	return Result{}
}
