package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"ksi-core/internal/config"
	"ksi-core/internal/domain/entity"
	"ksi-core/internal/domain/repository"
)

// SourceResult is the outcome for one data source. Skipped (not in
// the requirement set) is kept distinct from fetched-but-empty even
// though both currently render nothing.
type SourceResult struct {
	ID      entity.SourceID
	Skipped bool
	Section string
}

// Assembler fans out to the required source clients in parallel and
// concatenates their rendered sections into the model context. The
// section order is fixed so the prompt structure is stable across
// requests regardless of fetch completion order.
type Assembler struct {
	news    *NewsChain
	stats   repository.StatsSource
	players repository.PlayerSource
	odds    repository.OddsSource
	limits  config.Limits
	league  config.League
}

func NewAssembler(news *NewsChain, stats repository.StatsSource, players repository.PlayerSource, odds repository.OddsSource, limits config.Limits, league config.League) *Assembler {
	return &Assembler{
		news:    news,
		stats:   stats,
		players: players,
		odds:    odds,
		limits:  limits,
		league:  league,
	}
}

// Assemble fetches every source in required concurrently and renders
// the context string. Sources outside the set are never invoked.
func (a *Assembler) Assemble(ctx context.Context, required map[entity.SourceID]bool, query string) (string, []SourceResult) {
	order := entity.AllSources()
	results := make([]SourceResult, len(order))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range order {
		if !required[id] {
			results[i] = SourceResult{ID: id, Skipped: true}
			continue
		}

		g.Go(func() error {
			results[i] = SourceResult{ID: id, Section: a.renderSource(gctx, id, query)}
			return nil
		})
	}
	g.Wait()

	var sections []string
	for _, r := range results {
		if r.Section != "" {
			sections = append(sections, r.Section)
		}
	}
	return strings.Join(sections, "\n\n"), results
}

func (a *Assembler) renderSource(ctx context.Context, id entity.SourceID, query string) string {
	switch id {
	case entity.SourceStandings:
		return a.renderStandings(a.stats.Standings(ctx))
	case entity.SourceForm:
		return a.renderForm(a.stats.TeamForm(ctx))
	case entity.SourceResults:
		return a.renderResults(a.stats.RecentResults(ctx))
	case entity.SourceFixtures:
		return a.renderFixtures(a.stats.UpcomingFixtures(ctx))
	case entity.SourceHeadToHead:
		return a.renderHeadToHead(a.stats.HeadToHead(ctx))
	case entity.SourcePlayerStats:
		return a.renderScorers(a.players.TopScorers(ctx))
	case entity.SourceInjuries:
		return a.renderInjuries(a.players.Injuries(ctx))
	case entity.SourceOdds:
		return a.renderOdds(a.odds.UpcomingOdds(ctx))
	case entity.SourceNews:
		return a.renderNews(a.news.Fetch(ctx, query))
	}
	return ""
}

// seasonLabel turns "2025-2026" into "2025/26".
func (a *Assembler) seasonLabel() string {
	s := a.league.Season
	if len(s) == 9 {
		return s[:4] + "/" + s[7:]
	}
	return s
}

func (a *Assembler) renderStandings(rows []entity.StandingEntry) string {
	if len(rows) == 0 {
		return ""
	}
	if len(rows) > a.limits.StandingsRows {
		rows = rows[:a.limits.StandingsRows]
	}

	lines := []string{fmt.Sprintf("=== BUNDESLIGA TABELLE (Saison %s) ===", a.seasonLabel()), ""}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf(
			"%2d. %-25s | %2d Sp. | %2d Pkt | %d:%d (%+d)",
			row.Rank, row.Team, row.Played, row.Points,
			row.GoalsFor, row.GoalsAgainst, row.GoalDiff(),
		))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) renderForm(forms []entity.TeamForm) string {
	if len(forms) == 0 {
		return ""
	}
	// Most in-form teams first.
	sort.SliceStable(forms, func(i, j int) bool { return forms[i].Points > forms[j].Points })
	if len(forms) > a.limits.FormTeams {
		forms = forms[:a.limits.FormTeams]
	}

	lines := []string{"=== FORMKURVE (Letzte 5 Spiele) ===", ""}
	for _, f := range forms {
		lines = append(lines, fmt.Sprintf(
			"%s: %s (%d Punkte aus letzten 5 Spielen)",
			f.Team, strings.Join(f.Letters, "-"), f.Points,
		))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) renderResults(results []entity.MatchResult) string {
	if len(results) == 0 {
		return ""
	}
	if len(results) > a.limits.RecentResults {
		results = results[:a.limits.RecentResults]
	}

	lines := []string{"=== AKTUELLE ERGEBNISSE ===", ""}
	for _, r := range results {
		lines = append(lines, fmt.Sprintf(
			"[%s] %s %d:%d %s",
			r.Date.Format("02.01."), r.HomeTeam, r.HomeScore, r.AwayScore, r.AwayTeam,
		))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) renderFixtures(fixtures []entity.Fixture) string {
	if len(fixtures) == 0 {
		return ""
	}
	if len(fixtures) > a.limits.UpcomingFixtures {
		fixtures = fixtures[:a.limits.UpcomingFixtures]
	}

	lines := []string{"=== KOMMENDE SPIELE ===", ""}
	for _, f := range fixtures {
		lines = append(lines, fmt.Sprintf(
			"[%s] %s vs %s",
			f.Kickoff.Format("02.01. 15:04"), f.HomeTeam, f.AwayTeam,
		))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) renderHeadToHead(records []entity.HeadToHead) string {
	if len(records) == 0 {
		return ""
	}
	if len(records) > a.limits.H2HFixtures {
		records = records[:a.limits.H2HFixtures]
	}

	lines := []string{"=== DIREKTER VERGLEICH (Kommende Spiele) ===", ""}
	for _, r := range records {
		lines = append(lines, fmt.Sprintf(
			"%s vs %s: %dS-%dU-%dN (letzte %d Spiele, %s Perspektive)",
			r.Team1, r.Team2, r.Team1Wins, r.Draws, r.Team2Wins, r.TotalMatches, r.Team1,
		))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) renderScorers(stats []entity.PlayerStat) string {
	if len(stats) == 0 {
		return ""
	}
	if len(stats) > a.limits.TopScorers {
		stats = stats[:a.limits.TopScorers]
	}

	lines := []string{fmt.Sprintf("=== TOP-TORSCHÜTZEN (Saison %s) ===", a.seasonLabel()), ""}
	for i, p := range stats {
		lines = append(lines, fmt.Sprintf(
			"%2d. %s (%s) – %d Tore, %d Vorlagen, %d Spiele",
			i+1, p.Name, p.Team, p.Goals, p.Assists, p.Appearances,
		))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) renderInjuries(reports []entity.InjuryReport) string {
	if len(reports) == 0 {
		return ""
	}

	byTeam := make(map[string][]entity.InjuryReport)
	for _, r := range reports {
		byTeam[r.Team] = append(byTeam[r.Team], r)
	}
	teams := make([]string, 0, len(byTeam))
	for team := range byTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	lines := []string{"=== VERLETZUNGEN & SPERREN ===", ""}
	for _, team := range teams {
		list := byTeam[team]
		if len(list) > a.limits.InjuriesPerTeam {
			list = list[:a.limits.InjuriesPerTeam]
		}
		names := make([]string, 0, len(list))
		for _, r := range list {
			if r.Reason != "" {
				names = append(names, fmt.Sprintf("%s (%s)", r.Player, r.Reason))
			} else {
				names = append(names, r.Player)
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", team, strings.Join(names, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) renderOdds(odds []entity.MatchOdds) string {
	if len(odds) == 0 {
		return ""
	}
	if len(odds) > a.limits.OddsFixtures {
		odds = odds[:a.limits.OddsFixtures]
	}

	lines := []string{
		"=== WETTQUOTEN (Kommende Spiele) ===",
		"Hinweis: Quoten dienen nur der Unterhaltung",
		"",
	}
	for _, o := range odds {
		lines = append(lines, fmt.Sprintf("%s vs %s (%s)", o.HomeTeam, o.AwayTeam, o.Kickoff.Format("02.01. 15:04")))
		lines = append(lines, fmt.Sprintf(
			"  Quoten: Heim %.2f | Unentschieden %.2f | Auswärts %.2f",
			o.Home, o.Draw, o.Away,
		))
		if o.Bookmaker != "" {
			lines = append(lines, fmt.Sprintf("  Quelle: %s", o.Bookmaker))
		}
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) renderNews(articles []entity.NewsArticle) string {
	if len(articles) == 0 {
		return ""
	}

	lines := []string{"=== NEWS ARTIKEL ===", ""}
	for _, art := range articles {
		content := art.Content
		if len([]rune(content)) > 500 {
			content = string([]rune(content)[:500]) + "..."
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", art.Timestamp.Format("2006-01-02 15:04"), art.Title))
		lines = append(lines, fmt.Sprintf("Quelle: %s", art.Source))
		if art.ArticleType != "" {
			lines = append(lines, fmt.Sprintf("Typ: %s", art.ArticleType))
		}
		lines = append(lines, fmt.Sprintf("Inhalt: %s", content))
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
