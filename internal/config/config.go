package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"

	"groupgate/lib/validate"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env:"PORT" env-default:"8080"`
}

// TelegramConfig carries the bot credential and the identity of the single
// configured admin. A caller is treated as admin when their id matches
// AdminId or their username matches AdminUsername case-insensitively.
type TelegramConfig struct {
	Token         string `yaml:"token" env:"BOT_TOKEN" validate:"required"`
	GroupId       int64  `yaml:"group_id" env:"GROUP_ID" validate:"required"`
	AdminId       int64  `yaml:"admin_id" env:"ADMIN_ID"`
	AdminUsername string `yaml:"admin_username" env:"ADMIN_USERNAME"`
	CodeFormat    string `yaml:"code_format" env:"CODE_FORMAT" env-default:"numeric" validate:"oneof=numeric token"`
	CodeLength    int    `yaml:"code_length" env:"CODE_LENGTH" env-default:"6"`
	InviteTTLSec  int64  `yaml:"invite_ttl_sec" env:"INVITE_TTL_SEC" env-default:"10"`
}

type StorageConfig struct {
	UsersFile string `yaml:"users_file" env:"USERS_FILE" env-default:"activated_users.json"`
	CodesFile string `yaml:"codes_file" env:"CODES_FILE" env-default:"activation_codes.json"`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"MONGO_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
	User     string `yaml:"user" env:"MONGO_USER" env-default:""`
	Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"groupgate"`
}

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Listen   Listen         `yaml:"listen"`
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
}

var instance *Config
var once sync.Once

// MustLoad reads the configuration from the YAML file at path when it exists,
// falling back to environment variables alone. A missing bot token or group
// identifier is fatal: the process must not begin serving without them.
func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if _, statErr := os.Stat(path); statErr == nil {
			err = cleanenv.ReadConfig(path, instance)
		} else {
			err = cleanenv.ReadEnv(instance)
		}
		if err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
		if err = validate.Struct(instance.Telegram); err != nil {
			instance = nil
			log.Fatal(fmt.Errorf("config: %s", err))
		}
	})
	return instance
}
