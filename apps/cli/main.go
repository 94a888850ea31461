package main

import (
	"errors"
	"log"
	"os"
)

func main() {
	var cli *commandLine
	c := newContainer()
	if err := c.Invoke(func(cmd *commandLine) { cli = cmd }); err != nil {
		log.Fatalf("starting: %v", err)
	}

	err := cli.run(os.Args)
	cli.close()
	if err != nil {
		if !errors.Is(err, errHelp) {
			cli.printError(err)
		}
		os.Exit(1)
	}
}
