package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"finwarehouse/internal/config"
	"finwarehouse/internal/ui"
	"finwarehouse/pkg/models"
)

// setupCmd walks through connection configuration interactively and writes
// the config file.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure source and warehouse database connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.ShowHeader("Warehouse Setup")

		cfg := &models.Config{}

		source, err := askDatabase("source", 3306, "financedata")
		if err != nil {
			return err
		}
		cfg.Source = source

		warehouse, err := askDatabase("warehouse", 3307, "warehouse_db")
		if err != nil {
			return err
		}
		cfg.Warehouse = warehouse

		cfg.Defaults()
		if err := config.Save(cfg); err != nil {
			return err
		}

		ui.ShowSuccess("configuration written to " + config.GetConfigFile())
		return nil
	},
}

func askDatabase(role string, defaultPort int, defaultName string) (models.Database, error) {
	var answers struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
	}

	questions := []*survey.Question{
		{
			Name:     "host",
			Prompt:   &survey.Input{Message: fmt.Sprintf("%s database host:", role), Default: "localhost"},
			Validate: survey.Required,
		},
		{
			Name:     "port",
			Prompt:   &survey.Input{Message: fmt.Sprintf("%s database port:", role), Default: strconv.Itoa(defaultPort)},
			Validate: survey.Required,
		},
		{
			Name:     "user",
			Prompt:   &survey.Input{Message: fmt.Sprintf("%s database user:", role), Default: "root"},
			Validate: survey.Required,
		},
		{
			Name:     "password",
			Prompt:   &survey.Password{Message: fmt.Sprintf("%s database password:", role)},
			Validate: survey.Required,
		},
		{
			Name:     "database",
			Prompt:   &survey.Input{Message: fmt.Sprintf("%s database name:", role), Default: defaultName},
			Validate: survey.Required,
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return models.Database{}, err
	}

	port, err := strconv.Atoi(answers.Port)
	if err != nil {
		return models.Database{}, fmt.Errorf("invalid port %q", answers.Port)
	}

	return models.Database{
		Host:     answers.Host,
		Port:     port,
		User:     answers.User,
		Password: answers.Password,
		Name:     answers.Database,
	}, nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
