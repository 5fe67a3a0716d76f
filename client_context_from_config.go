package aerodata

import (
	"github.com/aerodata/go-aerodata/adcomponents"
	"github.com/aerodata/go-aerodata/internal"
	"github.com/aerodata/go-aerodata/subsystems"
)

func newClientContextFromConfig(config Config) (*internal.ClientContextImpl, error) {
	basicConfig := subsystems.BasicClientContext{
		Offline:       config.Offline,
		DataEndpoints: config.DataEndpoints,
	}

	loggingFactory := config.Logging
	if loggingFactory == nil {
		loggingFactory = adcomponents.Logging()
	}
	logging, err := loggingFactory.Build(basicConfig)
	if err != nil {
		return nil, err
	}
	basicConfig.Logging = logging

	httpFactory := config.HTTP
	if httpFactory == nil {
		httpFactory = adcomponents.HTTPConfiguration()
	}
	httpConfig, err := httpFactory.Build(basicConfig)
	if err != nil {
		return nil, err
	}
	basicConfig.HTTP = httpConfig

	return &internal.ClientContextImpl{BasicClientContext: basicConfig}, nil
}
