package shell

import (
	"context"
	"os"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	roble "github.com/augustosalazar/roble-go"
)

// Run parses options from args and environment, wires a session and enters
// the interactive loop.
func Run(args []string) error {
	options := &roble.Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}
	if options.Debug {
		log.SetLevel(log.DebugLevel)
	}
	session, err := roble.New(options)
	if err != nil {
		return err
	}
	return New(session, options, os.Stdin, os.Stdout).Loop(context.Background())
}
