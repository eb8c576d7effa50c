package jamsconfig

import (
	"go.uber.org/fx"

	"github.com/spf13/viper"
)

// Module loads and validates the jams configuration block from the
// application-wide Viper instance and provides it for injection.
var Module fx.Option = fx.Provide(provideConfig)

func provideConfig(v *viper.Viper) (*Config, error) {
	return NewConfig(WithViper(v))
}
