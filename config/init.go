package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

// reading config error is fatal, and exists main thread
func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}

func readFile(cfg *Configuration) {
	f, err := os.Open("config.yml")
	if err != nil {
		processError(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		processError(err)
	}
}

func readEnv(cfg *Configuration) {
	err := envconfig.Process("", cfg)
	if err != nil {
		processError(err)
	}
}

func Init() {
	readFile(&Config)
	readEnv(&Config)

	if Config.Bridge.Role == "" {
		Config.Bridge.Role = "both"
	}
	if Config.Bridge.AuditInterval <= 0 {
		Config.Bridge.AuditInterval = 30
	}
	if Config.Bridge.HomeAddress == "" {
		Config.Bridge.HomeAddress = "0x1000000000000000000000000000000000000010"
	}
	if Config.Bridge.RemoteAddress == "" {
		// same slot convention as rollup standard-bridge predeploys
		Config.Bridge.RemoteAddress = "0x4200000000000000000000000000000000000010"
	}
}
