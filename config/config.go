package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "SNUBLEJUICE_CONFIG_FILE"
	envPrefix         = "SNUBLEJUICE"
)

type rateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type tlsFiles struct {
	Cert     string `mapstructure:"cert"`
	Key      string `mapstructure:"key"`
	ClientCA string `mapstructure:"client_ca"`
}

func (t tlsFiles) Enabled() bool {
	return t.Cert != "" && t.Key != ""
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	SQLDriver      string     `mapstructure:"sql_driver"`
	SQLDB          string     `mapstructure:"sql_db"`
	JWTKey         string     `mapstructure:"jwt_key"`
	RateLimit      rateLimit  `mapstructure:"rate_limit"`
	TLS            tlsFiles   `mapstructure:"tls"`
}

func Load() Config {
	cfg, err := load(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("sql_driver", "sqlite")
	v.SetDefault("rate_limit.rps", 0)
	v.SetDefault("rate_limit.burst", 0)
	v.SetDefault("tls.cert", "")
	v.SetDefault("tls.key", "")
	v.SetDefault("tls.client_ca", "")
	v.SetDefault("jwt_key", "")
	v.SetDefault("sql_db", "")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeHook extends the viper defaults with text unmarshalling,
// so log_level accepts names like "debug".
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	fmt.Println("Loaded config:")
	fmt.Print(c.String())
}

// String renders the config with the JWT key masked.
func (c Config) String() string {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDriver=%q
	SQLDB=%q
	JWTKey=%q

	RateLimit:
	RPS=%v
	Burst=%d

	TLS:
	Cert=%q
	Key=%q
	ClientCA=%q

`
	return fmt.Sprintf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.SQLDriver,
		c.SQLDB,
		mask(c.JWTKey),
		c.RateLimit.RPS,
		c.RateLimit.Burst,
		c.TLS.Cert,
		c.TLS.Key,
		c.TLS.ClientCA,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "******"
}
