package main

import (
	"log"

	"yashubustudio/solarpredict/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("solarpredict: %v", err)
	}
}
