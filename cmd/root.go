package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "skillswap"
)

type Config struct {
	MembersFile   string         `mapstructure:"members-file"`
	CurrentUser   string         `mapstructure:"current-user"`
	Ranker        string         `mapstructure:"ranker"`
	MaxCandidates int            `mapstructure:"max-candidates"`
	SwipeFile     string         `mapstructure:"swipe-file"`
	Output        string         `mapstructure:"output"`
	Filters       *FiltersConfig `mapstructure:"filters"`
	AI            *AIConfig      `mapstructure:"ai"`
}

type FiltersConfig struct {
	Search        string  `mapstructure:"search"`
	Location      string  `mapstructure:"location"`
	Availability  string  `mapstructure:"availability"`
	Level         string  `mapstructure:"level"`
	MinTrustScore float64 `mapstructure:"min-trust-score"`
}

type AIConfig struct {
	Local  *LocalConfig  `mapstructure:"local"`
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type LocalConfig struct {
	Limit int `mapstructure:"limit"`
}

type GeminiConfig struct {
	APIKeyFile   string        `mapstructure:"api-key-file"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max-retries"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Temperature  *float32      `mapstructure:"temperature"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillswap suggests community members to trade skills with",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("members-file", "SKILLSWAP_MEMBERS_FILE"); err != nil {
		log.Fatalf("binding SKILLSWAP_MEMBERS_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("ranker", "gemini")
	viper.SetDefault("output", "text")
	viper.SetDefault("max-candidates", 50)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillswap.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("members-file", "m", "", "member directory file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringP("swipe-file", "s", "", "swipe history file. Default is unset.")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("members-file", rootCmd.PersistentFlags().Lookup("members-file"))
	viper.BindPFlag("swipe-file", rootCmd.PersistentFlags().Lookup("swipe-file"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// An explicit config must parse. Without one the commands run on flags and env alone.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Local == nil {
		config.AI.Local = &LocalConfig{}
	}

	return config, nil
}
