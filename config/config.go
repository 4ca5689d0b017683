package config

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode    string `mapstructure:"mode"`
	Storage struct {
		Backend string `mapstructure:"backend"` // memory | file | postgres | redis
		File    struct {
			Path string `mapstructure:"path"`
		} `mapstructure:"file"`
		Postgres struct {
			Host     string `mapstructure:"host"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			Password string `mapstructure:"password"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
		Redis struct {
			Addr string `mapstructure:"addr"`
			DB   int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"storage"`
	Catalog struct {
		Path string `mapstructure:"path"` // empty means the embedded dataset
	} `mapstructure:"catalog"`
	App struct {
		DefaultLanguage string `mapstructure:"defaultLanguage"`
		PageSize        int    `mapstructure:"pageSize"`
	} `mapstructure:"app"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("KELANA")
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	if config.App.PageSize <= 0 {
		config.App.PageSize = 10
	}
	if config.App.DefaultLanguage == "" {
		config.App.DefaultLanguage = "en"
	}
	return config, nil
}
