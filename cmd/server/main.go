// Command server runs the game server alone, taking the flags of
// "chessmania serve".
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Yash182023/Chess-Mania/internal/cli"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// serve reads the log flags that the root command normally owns.
	cmd := cli.Serve()
	cmd.Use = "server"
	cli.AddLogFlags(cmd)
	cmd.SilenceUsage = true
	cmd.SetArgs(os.Args[1:])

	if err := cmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
