package main

import (
	"log"

	"github.com/nulenergi/microgrid/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("microgrid: %v", err)
	}
}
