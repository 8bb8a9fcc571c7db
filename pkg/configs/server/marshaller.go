package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMisconfigured is wrapped by errors caused by config values.
var ErrMisconfigured = fmt.Errorf("misconfigured")

// load server config from a file.
//
// args:
//   - filepath: filepath refers a config file.
//
// returns *ServerConfig, error:
//
//	When loading success, returns `(*ServerConfig, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

// Unmarshal parses yaml and seals it.
//
// Misconfigurations are reported as error wrapping ErrMisconfigured.
func Unmarshal(conf []byte) (out *ServerConfig, err error) {
	var _out *ServerConfigMarshall
	if err := yaml.Unmarshal(conf, &_out); err != nil {
		return nil, err
	}
	if _out == nil {
		return nil, fmt.Errorf("%w: config is empty", ErrMisconfigured)
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrMisconfigured, r)
		}
	}()
	out = TrySeal[*ServerConfig](_out)
	return out, nil
}
