package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type User struct {
	ID           string `yaml:"id"`
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"` // admin | user
}

type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"jwt"`

	Upstream struct {
		APIURL           string `yaml:"api_url"`
		WSURL            string `yaml:"ws_url"`
		TenantID         string `yaml:"tenant_id"`
		UserID           string `yaml:"user_id"` // optional: watch one user's calls only
		Token            string `yaml:"token"`
		ReconnectSeconds int    `yaml:"reconnect_seconds"`
	} `yaml:"upstream"`

	Users []User `yaml:"users"`
}

func Load() *Config {
	data, err := os.ReadFile("config.yaml")
	if err != nil {
		panic(err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		panic(err)
	}

	return &c
}
