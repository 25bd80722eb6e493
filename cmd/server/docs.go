package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Signalboard API
// @version         0.1.0
// @description     Signal ingestion, query, alerting, and live feed.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
