package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/serialkit/ringrx/pkg/framework"
	"github.com/serialkit/ringrx/pkg/receiver"
)

func init() {
	receiver.SetupFlags()
}

func main() {
	flag.Parse()

	rcv, err := receiver.NewConfig().NewReceiver()
	if err != nil {
		log.Fatalln(err)
	}
	defer rcv.Close()
	if err = rcv.Start(); err != nil {
		log.Fatalln(err)
	}

	runner := framework.NewRunner().HandleSignals()
	runner.Go(rcv.Runnables()...)
	if err = runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
