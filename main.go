package main

import (
	"context"
	"log"

	"github.com/judgegodwins/chess-rooms/api"
	"github.com/judgegodwins/chess-rooms/util"
	"github.com/judgegodwins/chess-rooms/ws"
)

func main() {
	util.InitValidator()

	config, err := util.LoadConfig()

	if err != nil {
		log.Fatal(err)
	}

	registry := ws.NewRegistry()
	manager := ws.NewManager(config, registry)

	// all room and registry state is owned by the manager's dispatch goroutine
	go manager.Run(context.Background())

	server := api.NewServer(config, manager)

	log.Fatal(server.Start())
}
