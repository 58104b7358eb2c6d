package main

import (
	"log"
	"os"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	cli := newCommandLine(conf, logger, os.Stdout)
	err := cli.run(os.Args)
	if cerr := cli.close(); cerr != nil {
		logger.Error("closing resources", cerr)
	}
	logger.Close()

	if err != nil {
		if err != errHelp {
			logger.Error("error: "+err.Error(), err)
		}
		os.Exit(1)
	}
}
