package roster

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Roster is the static player/team configuration loaded once at startup.
type Roster struct {
	// Players in file order; this is also the scan order.
	Players []string
	// Teams in file order; this is both the trigger-matching order and the
	// leaderboard publish order. Tags are normalized to uppercase.
	Teams []string
	// Posts maps each team tag to its leaderboard submission id.
	Posts map[string]string
}

// Load reads the player and team list files and pairs the teams with their
// leaderboard post ids. Every team tag must have a post id.
func Load(playersPath, teamsPath string, posts map[string]string) (*Roster, error) {
	players, err := readLines(playersPath)
	if err != nil {
		return nil, fmt.Errorf("read player list: %w", err)
	}

	teams, err := readLines(teamsPath)
	if err != nil {
		return nil, fmt.Errorf("read team list: %w", err)
	}

	for i, team := range teams {
		teams[i] = strings.ToUpper(team)
	}

	// Post map keys get the same normalization as the tags they are
	// checked against.
	normalized := make(map[string]string, len(posts))
	for tag, id := range posts {
		normalized[strings.ToUpper(tag)] = id
	}

	for _, team := range teams {
		if normalized[team] == "" {
			return nil, fmt.Errorf("no leaderboard post configured for team %s", team)
		}
	}

	return &Roster{
		Players: players,
		Teams:   teams,
		Posts:   normalized,
	}, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
