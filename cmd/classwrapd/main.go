package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/bmadison/classwrap/internal/constants"
	"github.com/bmadison/classwrap/internal/service"
)

func main() {
	addr := flag.String("addr", constants.DefaultServiceAddr, "listen address")
	db := flag.String("db", "classwrap.db", "path to the job database")
	flag.Parse()

	store, err := service.OpenStore(*db)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	worker := service.NewWorker(store)
	worker.Start()
	defer worker.Stop()

	srv := service.NewServer(store)
	log.Printf("classwrapd listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv); err != nil {
		log.Fatal(err)
	}
}
