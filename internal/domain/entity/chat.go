package entity

import "time"

// DetailLevel controls how long and deep model answers should be.
type DetailLevel string

const (
	DetailQuick    DetailLevel = "quick"
	DetailBalanced DetailLevel = "balanced"
	DetailDetailed DetailLevel = "detailed"
)

// Language selects the assistant's answer language.
type Language string

const (
	LanguageGerman  Language = "de"
	LanguageEnglish Language = "en"
)

// Persona tunes content emphasis per user type.
type Persona string

const (
	PersonaCasualFan         Persona = "casual_fan"
	PersonaExpertAnalyst     Persona = "expert_analyst"
	PersonaBettingEnthusiast Persona = "betting_enthusiast"
	PersonaFantasyPlayer     Persona = "fantasy_player"
)

// UserProfile carries the caller's preferences. Zero values fall back
// to German, balanced detail, casual fan.
type UserProfile struct {
	Name         string      `json:"name,omitempty"`
	DetailLevel  DetailLevel `json:"detail_level,omitempty"`
	Language     Language    `json:"language,omitempty"`
	Persona      Persona     `json:"persona,omitempty"`
	FavoriteTeam string      `json:"favorite_team,omitempty"`
	Interests    []string    `json:"interests,omitempty"`
}

// Normalized returns the profile with defaults applied.
func (p UserProfile) Normalized() UserProfile {
	if p.DetailLevel == "" {
		p.DetailLevel = DetailBalanced
	}
	if p.Language == "" {
		p.Language = LanguageGerman
	}
	if p.Persona == "" {
		p.Persona = PersonaCasualFan
	}
	return p
}

// ConversationTurn is one message of the chat history.
type ConversationTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Messages    []ConversationTurn `json:"messages"`
	UserProfile *UserProfile       `json:"user_profile,omitempty"`
}

// LastUserMessage returns the content of the most recent user turn,
// or "" when there is none.
func (r ChatRequest) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" {
			return r.Messages[i].Content
		}
	}
	return ""
}

// FeedItem is one entry of the personalized feed.
type FeedItem struct {
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	ArticleType string    `json:"article_type,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Relevance   float64   `json:"relevance"`
}

// FeedResponse is the body of GET /v1/feed.
type FeedResponse struct {
	Articles  []FeedItem `json:"articles"`
	Persona   Persona    `json:"persona"`
	Category  string     `json:"category"`
	Count     int        `json:"count"`
	Timestamp time.Time  `json:"timestamp"`
}
