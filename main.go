package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
)

const description = "QuickBooks Online oauth2 token client"
const version = "0.2.0 October 2026"
const usage = " <options> <command>" + "\n\n  " + description

// Opts are the command line options shared by every command
type Opts struct {
	Config  string `short:"c" long:"config" description:"yaml configuration file"`
	EnvFile string `short:"e" long:"envfile" description:".env file to load before reading the environment"`
	Verbose bool   `short:"v" long:"verbose" description:"log at debug level"`
}

var options Opts

func main() {

	var parser = flags.NewParser(&options, flags.Default)
	parser.Usage = fmt.Sprintf("%s : %s", usage, version)

	parser.AddCommand("serve",
		"run the token sidecar server",
		"Serve /refresh, /expired, /userinfo and /livez over http.",
		&serveCommand{})
	parser.AddCommand("refresh",
		"refresh a token",
		"Exchange a refresh token for a new access token, printing the result as json.",
		&refreshCommand{})
	parser.AddCommand("expired",
		"check a token expiry",
		"Report whether a unix expiry time is within the buffer of now.",
		&expiredCommand{})

	if _, err := parser.Parse(); err != nil {
		if flagError, ok := err.(*flags.Error); ok && flagError.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
