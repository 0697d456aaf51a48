package engineio

import (
	"net/http"
	"os"
	"time"

	eiop "github.com/njones/eioclient/engineio/protocol"
	eiot "github.com/njones/eioclient/engineio/transport"
	"gopkg.in/yaml.v3"
)

// Config is the file form of the client options:
//
//	path: socket.io
//	protocol: 4
//	transport: websocket
//	open_timeout: 10s
//	close_timeout: 5s
//	handshake: json
//	resolve_redirect: false
//	read_limit: 1048576
//	headers:
//	  Authorization: Bearer abc
type Config struct {
	Path            string            `yaml:"path"`
	Protocol        int               `yaml:"protocol"`
	Transport       string            `yaml:"transport"`
	OpenTimeout     time.Duration     `yaml:"open_timeout"`
	CloseTimeout    time.Duration     `yaml:"close_timeout"`
	Handshake       string            `yaml:"handshake"`
	ResolveRedirect bool              `yaml:"resolve_redirect"`
	ReadLimit       int64             `yaml:"read_limit"`
	Headers         map[string]string `yaml:"headers"`
}

func DefaultConfig() *Config {
	return &Config{
		Path:         eiot.DefaultPath,
		Protocol:     eiop.Version4,
		Transport:    "websocket",
		OpenTimeout:  10 * time.Second,
		CloseTimeout: 5 * time.Second,
		Handshake:    "json",
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrConfigRead.F(path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ErrConfigRead.F(path, err)
	}

	return cfg, nil
}

// Options turns the config into client options.
func (cfg *Config) Options() ([]Option, error) {
	var trOpts []eiot.Option
	if len(cfg.Headers) > 0 {
		header := make(http.Header, len(cfg.Headers))
		for key, val := range cfg.Headers {
			header.Set(key, val)
		}
		trOpts = append(trOpts, eiot.WithHeader(header))
	}
	if cfg.ReadLimit > 0 {
		trOpts = append(trOpts, eiot.WithReadLimit(cfg.ReadLimit))
	}

	var newTransport eiot.NewTransport
	switch cfg.Transport {
	case "", "websocket":
		newTransport = eiot.NewWebsocketTransport(trOpts...)
	case "gorilla":
		newTransport = eiot.NewGorillaTransport(trOpts...)
	default:
		return nil, ErrUnknownTransport.F(cfg.Transport)
	}

	var hc eiop.HandshakeCodec
	switch cfg.Handshake {
	case "", "json":
		hc = eiop.JSONHandshake{}
	case "msgpack":
		hc = eiop.MsgpackHandshake{}
	default:
		return nil, ErrUnknownHandshake.F(cfg.Handshake)
	}

	opts := []Option{
		WithPath(cfg.Path),
		WithProtocolVersion(cfg.Protocol),
		WithTransport(newTransport),
		WithOpenTimeout(cfg.OpenTimeout),
		WithCloseTimeout(cfg.CloseTimeout),
		WithHandshakeCodec(hc),
	}
	if cfg.ResolveRedirect {
		opts = append(opts, WithResolveRedirect(nil))
	}

	return opts, nil
}
