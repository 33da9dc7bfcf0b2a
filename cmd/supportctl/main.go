package main

import (
	"fmt"
	"os"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
