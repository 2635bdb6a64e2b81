package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"data directory, one file per table"`
	Extension         string `usage:"table file extension"`
	KeepOpen          bool   `usage:"keep tables open and locked between requests, changes are saved on shutdown"`
	ApiKey            string `usage:"require this X-Api-Key header, empty disables authentication"`
	ApiSecret         string `usage:"require this X-Api-Secret header"`
	EnableCompression bool   `usage:"gzip responses when the client accepts it"`
	LogLevel          string `usage:"log level: debug | info | warn | error"`
	Version           bool   `usage:"show version and exit"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() *Configuration {
	return &Configuration{
		HttpAddr:  "127.0.0.1:8080",
		Dir:       "data",
		Extension: ".json",
		LogLevel:  "info",
	}
}
