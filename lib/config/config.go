// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/workgraph/lib/atomicfile"
)

// FileName is the config file's name inside a workgraph directory.
const FileName = "config.yaml"

// Config is the workgraph project configuration.
type Config struct {
	Agent   AgentConfig   `yaml:"agent" json:"agent"`
	Project ProjectConfig `yaml:"project" json:"project"`
}

// AgentConfig configures the task executor.
type AgentConfig struct {
	// Executor names the agent runtime ("claude", "shell", ...).
	Executor string `yaml:"executor" json:"executor" validate:"required"`

	// Model is substituted for {model} in CommandTemplate.
	Model string `yaml:"model" json:"model"`

	// Interval is the executor's polling interval in seconds.
	Interval int `yaml:"interval" json:"interval" validate:"gte=1"`

	// CommandTemplate is the command line run for each task. The
	// placeholders {model}, {prompt}, {task_id}, and {workdir} are
	// replaced by BuildCommand.
	CommandTemplate string `yaml:"command_template" json:"command_template" validate:"required"`

	// MaxTasks caps the tasks one executor run will start. Zero
	// means no limit.
	MaxTasks int `yaml:"max_tasks,omitempty" json:"max_tasks,omitempty" validate:"gte=0"`

	// HeartbeatTimeout is how many minutes an actor may go without a
	// heartbeat before it is reported stale.
	HeartbeatTimeout int `yaml:"heartbeat_timeout" json:"heartbeat_timeout" validate:"gte=1"`
}

// ProjectConfig describes the project.
type ProjectConfig struct {
	Name          string   `yaml:"name,omitempty" json:"name,omitempty"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	DefaultSkills []string `yaml:"default_skills,omitempty" json:"default_skills,omitempty" validate:"dive,required"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Executor:         "claude",
			Model:            "sonnet",
			Interval:         10,
			CommandTemplate:  `claude --model {model} --print "{prompt}"`,
			HeartbeatTimeout: 5,
		},
	}
}

// Path returns the config file path inside a workgraph directory.
func Path(workgraphDirectory string) string {
	return filepath.Join(workgraphDirectory, FileName)
}

// LoadDir loads the config file in a workgraph directory, or Default
// when there is none.
func LoadDir(workgraphDirectory string) (*Config, error) {
	return LoadFile(Path(workgraphDirectory))
}

// LoadFile loads the config at path over Default. A missing file
// yields Default. Environment references are expanded.
func LoadFile(path string) (*Config, error) {
	cfg, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	cfg.expandVariables()
	return cfg, nil
}

func loadRaw(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path atomically.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return atomicfile.Write(path, data, 0o644)
}

// Init writes the default config into a workgraph directory unless a
// config file already exists. It reports whether a file was created.
func Init(workgraphDirectory string) (bool, error) {
	path := Path(workgraphDirectory)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking for existing config: %w", err)
	}
	if err := Default().Save(path); err != nil {
		return false, err
	}
	return true, nil
}

// Update loads the raw (unexpanded) config at path, applies mutate,
// validates the result, and saves it.
func Update(path string, mutate func(*Config) error) (*Config, error) {
	cfg, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	if err := mutate(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Keys lists the dotted names accepted by Set, in file order.
var Keys = []string{
	"agent.executor",
	"agent.model",
	"agent.interval",
	"agent.command_template",
	"agent.max_tasks",
	"agent.heartbeat_timeout",
	"project.name",
	"project.description",
	"project.default_skills",
}

// Set assigns one value by dotted key. project.default_skills takes a
// comma-separated list.
func (c *Config) Set(key, value string) error {
	parseInt := func() (int, error) {
		number, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
		}
		return number, nil
	}

	var err error
	switch key {
	case "agent.executor":
		c.Agent.Executor = value
	case "agent.model":
		c.Agent.Model = value
	case "agent.interval":
		c.Agent.Interval, err = parseInt()
	case "agent.command_template":
		c.Agent.CommandTemplate = value
	case "agent.max_tasks":
		c.Agent.MaxTasks, err = parseInt()
	case "agent.heartbeat_timeout":
		c.Agent.HeartbeatTimeout, err = parseInt()
	case "project.name":
		c.Project.Name = value
	case "project.description":
		c.Project.Description = value
	case "project.default_skills":
		c.Project.DefaultSkills = nil
		for _, skill := range strings.Split(value, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				c.Project.DefaultSkills = append(c.Project.DefaultSkills, skill)
			}
		}
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return err
}

// configValidate is shared; validator.Validate caches struct metadata.
var configValidate = validator.New()

// Validate checks the configuration and reports every violation.
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	errs := make([]error, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		errs = append(errs, fmt.Errorf("%s: failed %q constraint (value %v)",
			fieldError.Namespace(), fieldError.Tag(), fieldError.Value()))
	}
	return errors.Join(errs...)
}

// BuildCommand renders CommandTemplate for one task.
func (c *Config) BuildCommand(prompt, taskID, workdir string) string {
	return strings.NewReplacer(
		"{model}", c.Agent.Model,
		"{prompt}", prompt,
		"{task_id}", taskID,
		"{workdir}", workdir,
	).Replace(c.Agent.CommandTemplate)
}

// HeartbeatThreshold returns HeartbeatTimeout as a duration.
func (c *Config) HeartbeatThreshold() time.Duration {
	return time.Duration(c.Agent.HeartbeatTimeout) * time.Minute
}

// PollInterval returns Interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Agent.Interval) * time.Second
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// string values.
func (c *Config) expandVariables() {
	c.Agent.Executor = expandVars(c.Agent.Executor)
	c.Agent.Model = expandVars(c.Agent.Model)
	c.Agent.CommandTemplate = expandVars(c.Agent.CommandTemplate)
	c.Project.Name = expandVars(c.Project.Name)
	c.Project.Description = expandVars(c.Project.Description)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}
