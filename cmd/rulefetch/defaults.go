package main

import (
	"fmt"

	"github.com/fwojciec/rulefetch/yaml"
)

// Run executes the defaults command.
func (c *DefaultsCmd) Run(deps *Dependencies) error {
	data, err := yaml.Marshal(deps.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = deps.Stdout.Write(data)
	return err
}
