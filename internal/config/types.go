package config

// Config holds all configuration for the application.
type Config struct {
	Osu   OsuConfig
	Slack SlackConfig
	Port  string
	// CommandToken guards POST /command with a bearer token. Without one the
	// endpoint refuses every request.
	CommandToken string
	ProjectID    string
	// EventsTopic is the Pub/Sub topic for match events. Publishing is off
	// unless ProjectID is set.
	EventsTopic string
	MatchFile   string
	PoolFile    string
	LogLevel    string
	LogFormat   string
}

type OsuConfig struct {
	Username    string
	IRCPassword string
	APIKey      string
	BanchoAddr  string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
	// Mention is prepended to panic alerts, e.g. "<!here>".
	Mention string
	// AllowedUsers are the Slack user names that may run commands through
	// /autoref. Anyone may ask for the status.
	AllowedUsers []string
}

// MatchFile is the layout of match.json.
type MatchFile struct {
	Tournament    string     `json:"tournament"`
	Teams         []TeamFile `json:"teams"`
	BestOf        int        `json:"bestOf"`
	PerTeamBans   int        `json:"perTeamBans"`
	BanOrder      string     `json:"banOrder"`
	SplitBans     *SplitBans `json:"splitBans,omitempty"`
	FirstBan      string     `json:"firstBan"`
	FirstPick     string     `json:"firstPick"`
	TeamSize      int        `json:"teamSize"`
	TrustedPeople []string   `json:"trustedPeople"`
	WaitSong      int        `json:"waitSong"`
	CommandPrefix string     `json:"commandPrefix"`
	Tiebreaker    string     `json:"tiebreaker"`
	PanicKeyword  string     `json:"panicKeyword"`
	Timers        TimersFile `json:"timers"`
}

type TeamFile struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type SplitBans struct {
	Before       int `json:"before"`
	PicksBetween int `json:"picksBetween"`
}

// TimersFile holds countdowns in seconds. Zero means the default.
type TimersFile struct {
	PickWait        int `json:"pickWait"`
	BanWait         int `json:"banWait"`
	WaitingForStart int `json:"waitingForStart"`
	ReadyStart      int `json:"readyStart"`
	ForceStart      int `json:"forceStart"`
	Timeout         int `json:"timeout"`
	AbortLeniency   int `json:"abortLeniency"`
}

// PoolFileEntry is one map of pool.json.
type PoolFileEntry struct {
	Code string `json:"code"`
	ID   int    `json:"id"`
	Mod  string `json:"mod,omitempty"`
}
