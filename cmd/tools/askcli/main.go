package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/okrause/elaborate/internal/config"
	"github.com/okrause/elaborate/internal/service/assistant"
)

// askcli sends one completion request to a running ask endpoint. Handy for
// exercising prompts without attaching a page.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] could not load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	url := flag.String("url", cfg.Assistant.URL, "ask endpoint URL")
	transcript := flag.String("transcript", "", "transcript text (reads stdin when empty)")
	systemPrompt := flag.String("system", "", "system prompt (empty lets the server pick its follow-up default)")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")

	flag.Parse()

	text := strings.TrimSpace(*transcript)
	if text == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("failed to read stdin: %v", err)
		}
		text = strings.TrimSpace(string(raw))
	}
	if text == "" {
		flag.Usage()
		log.Fatal("provide a transcript via -transcript or stdin")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := assistant.NewClient(*url, 0)
	reply, err := client.Ask(ctx, text, *systemPrompt)
	if err != nil {
		log.Fatalf("ask failed: %v", err)
	}

	fmt.Println(reply)
}
