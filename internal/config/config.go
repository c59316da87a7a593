package config

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		Osu: OsuConfig{
			Username:    getEnv("OSU_USERNAME"),
			IRCPassword: getEnv("OSU_IRC_PASSWORD"),
			APIKey:      getEnv("OSU_API_KEY"),
			BanchoAddr:  getEnvDefault("BANCHO_ADDR", "irc.ppy.sh:6667"),
		},
		// An empty token puts the notifier in dry run mode.
		Slack: SlackConfig{
			Token:         getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvDefault("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvDefault("SLACK_SIGNING_SECRET", ""),
			Mention:       getEnvDefault("SLACK_MENTION", "<!here>"),
			AllowedUsers:  splitList(getEnvDefault("SLACK_ALLOWED_USERS", "")),
		},
		Port:         getEnvDefault("PORT", "8080"),
		CommandToken: getEnvDefault("AUTOREF_TOKEN", ""),
		ProjectID:    getEnvDefault("GCP_PROJECT", ""),
		EventsTopic:  getEnvDefault("EVENTS_TOPIC", "autoref-events"),
		MatchFile:    getEnvDefault("MATCH_FILE", "match.json"),
		PoolFile:     getEnvDefault("POOL_FILE", "pool.json"),
		LogLevel:     getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvDefault("LOG_FORMAT", "text"),
	}
	return cfg
}

// splitList parses a comma separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
