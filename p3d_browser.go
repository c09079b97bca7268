package main

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/shar-tools/p3d_browser/config"
	"github.com/shar-tools/p3d_browser/utils"
	"github.com/shar-tools/p3d_browser/vfs"
	"github.com/shar-tools/p3d_browser/web"
)

func main() {
	var configDir string
	var parsecheck bool
	pflag.StringVar(&configDir, "config", "", "Directory with p3d_browser.yaml")
	pflag.BoolVar(&parsecheck, "parsecheck", false, "Decode every file in -dir, report failures and exit")
	pflag.StringP("addr", "i", ":8000", "Address of server")
	pflag.String("dir", "", "Path to directory with p3d files")
	pflag.String("encoding", config.ENCODING_UTF8, "Text encoding of string fields")
	pflag.String("logLevel", "info", "trace, debug, info, warn or error")
	pflag.Int("maxDepth", 512, "Maximum chunk nesting")
	pflag.Bool("explicitStack", false, "Walk chunks without recursion")
	pflag.Parse()

	if err := config.Load(configDir, pflag.CommandLine); err != nil {
		utils.Log.Fatal().Err(err).Msg("Failed to load config")
	}
	utils.InitLogger(config.GetString("logLevel"), os.Stderr)

	dir := config.GetString("dir")
	if dir == "" {
		pflag.PrintDefaults()
		return
	}
	d := vfs.NewDirectoryDriver(dir)

	if parsecheck {
		if result := parseCheck(d, config.DecodeOptions()); result.Failed != 0 {
			os.Exit(1)
		}
		return
	}

	if err := web.StartServer(config.GetString("addr"), d, config.DecodeOptions()); err != nil {
		utils.Log.Fatal().Err(err).Msg("Server stopped")
	}
}
