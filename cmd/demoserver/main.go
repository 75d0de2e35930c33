// Command demoserver serves versioned job-application forms for trying out
// the fill engine locally.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/vennverse/formfill/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   Formfill Demo Server")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Serves job-application forms in several styles:")
	fmt.Println("  - Generic HTML form with conventional field names")
	fmt.Println("  - Workday-style form using data-automation-id attributes")
	fmt.Println("  - Greenhouse-style board form")
	fmt.Println("  - React-style form rendered after a delay")
	fmt.Println()
	fmt.Println("Switch page versions on the fly to exercise rescans.")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
