package api

import "github.com/potatbotat/potat-tui/internal/paint"

// Command is one entry of the bot's help listing.
type Command struct {
	Name                string            `json:"name"`
	Description         string            `json:"description"`
	Title               string            `json:"title"`
	DetailedDescription string            `json:"detailedDescription,omitempty"`
	Usage               string            `json:"usage"`
	Category            string            `json:"category"`
	Aliases             []string          `json:"aliases"`
	Flags               []FlagDetails     `json:"flags"`
	Cooldown            int               `json:"cooldown"`
	Level               int               `json:"level"`
	BotRequires         string            `json:"botRequires"`
	UserRequires        string            `json:"userRequires"`
	Conditions          CommandConditions `json:"conditions"`
}

// FlagDetails describes a command flag.
type FlagDetails struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Level        int      `json:"level"`
	UserRequires string   `json:"userRequires,omitempty"`
	Required     bool     `json:"required"`
	Description  string   `json:"description"`
	Usage        string   `json:"usage,omitempty"`
	Aliases      []string `json:"aliases,omitempty"`
}

type CommandConditions struct {
	OfflineOnly  bool `json:"offlineOnly,omitempty"`
	Whisperable  bool `json:"whisperable,omitempty"`
	IgnoreBots   bool `json:"ignoreBots,omitempty"`
	IsBlockable  bool `json:"isBlockable,omitempty"`
	IsNotPipable bool `json:"isNotPipable,omitempty"`
}

// Partner is a channel the bot has joined.
type Partner struct {
	Username     string `json:"username"`
	Display      string `json:"display"`
	StvPfp       string `json:"stv_pfp"`
	TwitchPfp    string `json:"twitch_pfp"`
	PageURL      string `json:"page_url"`
	Followers    int64  `json:"followers"`
	JoinedAt     string `json:"joined_at"`
	CommandCount int64  `json:"command_count"`
	UserColor    string `json:"user_color"`
}

// TwitchUser is a user profile with optional 7TV paint.
type TwitchUser struct {
	ChatColor *string      `json:"chatColor"`
	UserPaint *paint.Paint `json:"userPaint"`
	StvPfp    *string      `json:"stv_pfp"`
	TwitchPfp *string      `json:"twitch_pfp"`
	Name      *string      `json:"name"`
}

// DisplayName returns Name, or fallback when the backend sent null.
func (u *TwitchUser) DisplayName(fallback string) string {
	if u == nil || u.Name == nil || *u.Name == "" {
		return fallback
	}
	return *u.Name
}

// Color returns the chat colour or "".
func (u *TwitchUser) Color() string {
	if u == nil || u.ChatColor == nil {
		return ""
	}
	return *u.ChatColor
}

type Channel struct {
	Pfp      string `json:"pfp"`
	BestName string `json:"bestName"`
	Login    string `json:"login"`
	Name     string `json:"name"`
}

// EmoteHistory is one emote set change in a channel.
type EmoteHistory struct {
	SetID         string  `json:"set_id"`
	Action        string  `json:"action"`
	EmoteID       string  `json:"emote_id"`
	EmoteName     string  `json:"emote_name"`
	EmoteAlias    *string `json:"emote_alias"`
	EmoteNewAlias *string `json:"emote_new_alias"`
	Provider      string  `json:"provider"`
	UserLogin     string  `json:"user_login"`
	UserName      string  `json:"user_name"`
	BestUserName  string  `json:"bestUserName"`
	SetName       string  `json:"set_name"`
	UserColor     string  `json:"user_color"`
	Ago           string  `json:"ago"`
	EmoteURL      string  `json:"emoteURL"`
	EmoteLink     string  `json:"emoteLink"`
	Actor         string  `json:"actor"`
	KnownBot      bool    `json:"known_bot"`
	ExpiresAt     *string `json:"expires_at"`
	IsExpired     bool    `json:"is_expired"`
}

// History actions.
const (
	ActionAdd    = "ADD"
	ActionRemove = "REMOVE"
	ActionAlias  = "ALIAS"
)

type HistoryResponse struct {
	Channel Channel        `json:"channel"`
	History []EmoteHistory `json:"history"`
}

// UserState is the account behind a bearer token.
type UserState struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	StvID     string `json:"stv_id"`
	IsChannel bool   `json:"is_channel"`
}
