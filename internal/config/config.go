// Package config holds the process configuration. Values are populated
// in order: struct defaults, then environment, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

type Configuration struct {
	Server  Server
	Monitor Monitor
}

type Server struct {
	// HTTPPort is the fixed TCP port the web interface listens on.
	HTTPPort int `default:"8000" validate:"gte=1,lte=65535"`
	// ServerMode selects dev (plain HTTP, rendered dashboard) or prod
	// (statics folder, self-signed TLS).
	ServerMode    string `default:"dev" validate:"oneof=dev prod"`
	StaticsFolder string
}

type Monitor struct {
	// RefreshInterval is the period between collection cycles.
	RefreshInterval time.Duration `default:"15s" validate:"gt=0"`
	// ToolTimeout bounds each external tool invocation.
	ToolTimeout time.Duration `default:"10s" validate:"gt=0"`
	// MaxOutputBytes caps captured tool output; anything past it is
	// truncated and the parse flagged partial.
	MaxOutputBytes int64 `default:"4194304" validate:"gt=0"`
	// NumWorkers sizes the pool running tool invocations within a cycle.
	NumWorkers int `default:"2" validate:"gte=1"`

	LspciPath     string `default:"lspci" validate:"required"`
	LshwPath      string `default:"lshw" validate:"required"`
	NvidiaSMIPath string `default:"nvidia-smi" validate:"required"`
}

// NewConfigurationWithDefaults returns a Configuration with every field
// set to its default tag value.
func NewConfigurationWithDefaults() *Configuration {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		// Defaults are static tags; failing to apply them is a
		// programming error.
		panic(err)
	}
	return cfg
}

// Validate checks structural constraints. Cross-field rules the tags
// cannot express live in cmd's validateConfiguration.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0]
			return fmt.Errorf("invalid configuration: field %s failed %q constraint", field.Namespace(), field.Tag())
		}
		return err
	}
	return nil
}
