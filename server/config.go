package server

type ServerConfig struct {
	BroadcastAddr string `json:"broadcast_addr"`
	RedisAPIPort  int    `json:"redis_api_port"`
	HttpAPIPort   int    `json:"http_api_port"`
	DataDir       string `json:"data_dir"`
	LogDir        string `json:"log_dir"`
	LogLevel      int32  `json:"log_level"`
}

type ConfigFile struct {
	ServerConf ServerConfig `json:"server_conf"`
}
