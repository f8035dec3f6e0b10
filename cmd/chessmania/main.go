package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Yash182023/Chess-Mania/internal/cli"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	if err := chessmania(); err != nil {
		logrus.Fatal(err)
	}
}

func chessmania() error {
	root := cli.Root()
	root.SetArgs(os.Args[1:])
	return root.Execute()
}
