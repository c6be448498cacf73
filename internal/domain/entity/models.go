package entity

import "time"

// NewsArticle is a normalized article from any news source (RSS or
// web search). ArticleType tags what kind of story it is, e.g.
// "Match Report" or "Transfer News".
type NewsArticle struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Category    string    `json:"category,omitempty"`
	ArticleType string    `json:"article_type,omitempty"`
	Teams       []string  `json:"teams,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
}

// StandingEntry is one row of the league table.
type StandingEntry struct {
	Rank         int    `json:"rank"`
	Team         string `json:"team"`
	TeamID       string `json:"team_id,omitempty"`
	Played       int    `json:"played"`
	Points       int    `json:"points"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

// GoalDiff returns the goal difference for the entry.
func (s StandingEntry) GoalDiff() int {
	return s.GoalsFor - s.GoalsAgainst
}

// MatchResult is a finished match with its final score.
type MatchResult struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	League    string    `json:"league,omitempty"`
	Date      time.Time `json:"date"`
}

// Fixture is an upcoming match.
type Fixture struct {
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	HomeTeamID string    `json:"home_team_id,omitempty"`
	AwayTeamID string    `json:"away_team_id,omitempty"`
	League     string    `json:"league,omitempty"`
	Kickoff    time.Time `json:"kickoff"`
}

// TeamForm is the form guide for one team over its last matches:
// W/D/L letters plus the points taken.
type TeamForm struct {
	Team    string   `json:"team"`
	Letters []string `json:"letters"` // most recent first
	Points  int      `json:"points"`
}

// HeadToHead is the recent record between the two teams of an
// upcoming fixture, from Team1's perspective.
type HeadToHead struct {
	Team1        string `json:"team1"`
	Team2        string `json:"team2"`
	Team1Wins    int    `json:"team1_wins"`
	Draws        int    `json:"draws"`
	Team2Wins    int    `json:"team2_wins"`
	TotalMatches int    `json:"total_matches"`
}

// PlayerStat is one player's season statistics. Fields missing from
// the upstream payload default to zero rather than failing the record.
type PlayerStat struct {
	Name          string `json:"name"`
	Team          string `json:"team"`
	Position      string `json:"position,omitempty"`
	Appearances   int    `json:"appearances"`
	MinutesPlayed int    `json:"minutes_played"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	YellowCards   int    `json:"yellow_cards"`
	RedCards      int    `json:"red_cards"`
	Season        string `json:"season,omitempty"`
}

// InjuryReport is one unavailable player.
type InjuryReport struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Type   string `json:"type,omitempty"` // "Injury" or "Missing Roster"
	Reason string `json:"reason,omitempty"`
}

// MatchOdds holds pre-match head-to-head odds for one fixture, in
// European decimal format, from a single bookmaker.
type MatchOdds struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Kickoff   time.Time `json:"kickoff"`
	Home      float64   `json:"home"`
	Draw      float64   `json:"draw"`
	Away      float64   `json:"away"`
	Bookmaker string    `json:"bookmaker,omitempty"`
}
