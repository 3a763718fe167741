package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "musaetermo",
		Usage: "Terms-of-use signing service for the Musae Bot",
		Commands: []*cli.Command{
			serveCommand,
			signCommand,
			recordsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
