package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// Uploads an audio file to /transcribe and prints the transcript.
func main() {
	url := flag.String("url", "http://localhost:5051/transcribe", "")
	file := flag.String("file", "", "path to an audio file")
	flag.Parse()
	if *file == "" {
		fmt.Println("usage: upload -file=clip.wav [-url=http://host:port/transcribe]")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Println("read:", err)
		os.Exit(1)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(*file))
	if err != nil {
		fmt.Println("form:", err)
		os.Exit(1)
	}
	if _, err := fw.Write(raw); err != nil {
		fmt.Println("form write:", err)
		os.Exit(1)
	}
	if err := mw.Close(); err != nil {
		fmt.Println("form close:", err)
		os.Exit(1)
	}

	resp, err := http.Post(*url, mw.FormDataContentType(), &body)
	if err != nil {
		fmt.Println("post:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("server returned %d: %s\n", resp.StatusCode, out)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
