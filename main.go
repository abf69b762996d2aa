package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/kasetfair/booth-api/cmd/app"
)

// @title        Kaset Fair Booth Allocation API
// @description  Booth import, priority ordering, lottery draws and assignment confirmation for fair vendor stores.
// @version      1.0
//
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
