package config

import "time"

// Client definition workspace_client YAML structure
type Client struct {
	AuthServerURL       string        `mapstructure:"auth_server_url"`
	WorkspacesServerURL string        `mapstructure:"workspaces_server_url"`
	StaticStorageURL    string        `mapstructure:"static_storage_url"`
	Socket              SocketConfig  `mapstructure:"socket"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
}

// SocketConfig definition realtime connection setting
type SocketConfig struct {
	Path              string        `mapstructure:"path"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	ReconnectDelayMax time.Duration `mapstructure:"reconnect_delay_max"`
}
