package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/liftlog/internal/admin"
)

func main() {
	if err := admin.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
