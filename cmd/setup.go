package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"propensity/internal/config"
	"propensity/internal/ui"
	"propensity/pkg/models"
)

type setupAnswers struct {
	Project            string
	Dataset            string
	OutputDataset      string `survey:"output_dataset"`
	NegativeSampleSize string `survey:"negative_sample_size"`
}

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Write the configuration file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSetup(cmd)
		},
	}
}

func (a *app) runSetup(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		if err := survey.AskOne(prompt, &overwrite); err != nil {
			return err
		}
		if !overwrite {
			ui.ShowInfo(out, "Setup cancelled.")
			return nil
		}
	}

	current, err := config.Load()
	if err != nil {
		return err
	}

	questions := []*survey.Question{
		{
			Name:     "project",
			Prompt:   &survey.Input{Message: "BigQuery project id:", Default: current.Warehouse.Project},
			Validate: survey.Required,
		},
		{
			Name:     "dataset",
			Prompt:   &survey.Input{Message: "Dataset for intermediate tables:", Default: current.Warehouse.Dataset},
			Validate: survey.Required,
		},
		{
			Name:     "output_dataset",
			Prompt:   &survey.Input{Message: "Dataset for the labeled table:", Default: current.Warehouse.OutputDataset},
			Validate: survey.Required,
		},
		{
			Name: "negative_sample_size",
			Prompt: &survey.Input{
				Message: "Non-converting rows to keep:",
				Default: strconv.Itoa(current.Sampling.NegativeSampleSize),
			},
			Validate: validatePositiveInt,
		},
	}

	var answers setupAnswers
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	cfg, err := applySetupAnswers(current, answers)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	a.logger.Info().Str("path", config.GetConfigFile()).Msg("Configuration saved")
	ui.ShowSuccess(out, "Configuration saved to "+config.GetConfigFile())
	return nil
}

func validatePositiveInt(ans interface{}) error {
	s, _ := ans.(string)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

// applySetupAnswers returns a copy of base updated with the prompt answers.
func applySetupAnswers(base *models.Config, answers setupAnswers) (*models.Config, error) {
	if err := validatePositiveInt(answers.NegativeSampleSize); err != nil {
		return nil, err
	}
	n, _ := strconv.Atoi(answers.NegativeSampleSize)

	cfg := *base
	cfg.Warehouse.Project = answers.Project
	cfg.Warehouse.Dataset = answers.Dataset
	cfg.Warehouse.OutputDataset = answers.OutputDataset
	cfg.Sampling.NegativeSampleSize = n
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
