package main

import (
	"os"
	"strings"
	"sync"

	"github.com/NethermindEth/genai-gateway/pkg/gateway"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/setup"
)

type commandContext struct {
	configFlag *string

	setupOnce   sync.Once
	setupResult *setup.SetupResult
	setupErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureSetup() (*setup.SetupResult, error) {
	c.setupOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}

		result, err := setup.Setup(path)
		if err != nil {
			c.setupErr = err
			return
		}

		if err := setup.ConfigureLogging(os.Stderr, result.LogLevel, result.LogFormat); err != nil {
			c.setupErr = err
			return
		}

		c.setupResult = result
	})
	return c.setupResult, c.setupErr
}

func (c *commandContext) newGateway() (*gateway.Gateway, *setup.SetupResult, error) {
	result, err := c.ensureSetup()
	if err != nil {
		return nil, nil, err
	}

	config, err := gateway.NewConfigFromSetupResult(result)
	if err != nil {
		return nil, nil, err
	}

	g, err := gateway.NewGateway(config)
	if err != nil {
		return nil, nil, err
	}

	return g, result, nil
}
