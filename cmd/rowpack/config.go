package main

// Configuration is read from flags and environment by goconfig.
type Configuration struct {
	Width        int    `usage:"content width in pixels"`
	MaxRowHeight int    `usage:"maximum row height in pixels"`
	Fixed        bool   `usage:"use fixed row height"`
	Ratios       string `usage:"comma separated aspect ratios, negative for full-row items"`
	Dir          string `usage:"read aspect ratios from the images in this directory"`
	FullRow      string `usage:"comma separated positions laid out as full-row items"`
	Concurrency  int    `usage:"number of image headers decoded at once"`
	Out          string `usage:"layout JSON file, compressed for .zst and .lz4 suffixes; stdout if empty"`
	Png          string `usage:"render a preview PNG to this file"`
	Spacing      int    `usage:"gap between cells in the preview"`
	Images       bool   `usage:"paint the images into the preview"`
	LogLevel     string `usage:"log level: debug, info, warn, error"`
	Version      bool   `usage:"show version and exit"`
	ShowConfig   bool   `usage:"print config"`
}

// Default returns the configuration used when nothing is set.
func Default() Configuration {
	return Configuration{
		Width:        1080,
		MaxRowHeight: 600,
		Concurrency:  16,
		Spacing:      8,
		LogLevel:     "info",
	}
}
