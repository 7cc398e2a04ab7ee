package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "PHLOX_CONFIG_FILE"

type store struct {
	AdminPhone  string `mapstructure:"admin_phone"`
	CatalogFile string `mapstructure:"catalog_file"`
}

type consumers struct {
	SalesCounterGroup string `mapstructure:"sales_counter_group"`
}

type topics struct {
	OrderPlaced string `mapstructure:"order_placed"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	FeedbackDB     string     `mapstructure:"feedback_db"`
	Store          store      `mapstructure:"store"`
	Broker         broker     `mapstructure:"broker"`
}

// AnalyticsEnabled reports whether the optional order-analytics
// pipeline should be wired up.
func (c Config) AnalyticsEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
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
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	FeedbackDB=%q

	Store:
	AdminPhone=%q
	CatalogFile=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		OrderPlaced=%q
	Consumers:
		SalesCounterGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.FeedbackDB,
		c.Store.AdminPhone,
		c.Store.CatalogFile,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.OrderPlaced,
		c.Broker.Consumers.SalesCounterGroup,
	)
}
