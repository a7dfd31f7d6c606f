// Command test_integration exercises a running server end to end:
// report a lost item and a matching found item, then check that
// suggestions and auto-matching surface the pair.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const baseURL = "http://localhost:8080"

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Reporting lost item...")
	lostID, ok := createItem(map[string]string{
		"title":       "Blue Nike Backpack",
		"description": "Lost near library, has a dent on front pocket",
		"category":    "Bags",
		"location":    "Main Library",
		"type":        "lost",
	})
	if !ok {
		fmt.Println("FAILED: create lost item")
		os.Exit(1)
	}

	fmt.Println("2. Reporting found item...")
	foundID, ok := createItem(map[string]string{
		"title":       "Blue Nike Bag",
		"description": "Found near library entrance, front pocket scuffed",
		"category":    "Bags",
		"location":    "Main Library",
		"type":        "found",
	})
	if !ok {
		fmt.Println("FAILED: create found item")
		os.Exit(1)
	}
	_ = foundID

	fmt.Println("3. Fetching suggestions for lost item...")
	body, ok := get(fmt.Sprintf("/items/%s/suggestions?threshold=60", lostID))
	if !ok {
		fmt.Println("FAILED: suggestions request")
		os.Exit(1)
	}
	var suggestions struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &suggestions); err != nil || suggestions.Count == 0 {
		fmt.Printf("FAILED: expected at least one suggestion, got %s\n", body)
		os.Exit(1)
	}

	fmt.Println("4. Triggering auto-match...")
	if _, ok := post(fmt.Sprintf("/items/%s/auto-match", lostID), nil); !ok {
		fmt.Println("FAILED: auto-match request")
		os.Exit(1)
	}

	fmt.Println("5. Checking persisted matches...")
	body, ok = get(fmt.Sprintf("/items/%s/matches", lostID))
	if !ok {
		fmt.Println("FAILED: matches request")
		os.Exit(1)
	}
	var matches struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &matches); err != nil || matches.Count == 0 {
		fmt.Printf("FAILED: expected at least one match record, got %s\n", body)
		os.Exit(1)
	}

	fmt.Println("Integration Test PASSED")
}

func createItem(payload map[string]string) (string, bool) {
	body, ok := post("/items", payload)
	if !ok {
		return "", false
	}
	var item struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &item); err != nil || item.ID == "" {
		fmt.Printf("bad create response: %s\n", body)
		return "", false
	}
	return item.ID, true
}

func post(path string, payload any) ([]byte, bool) {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			fmt.Printf("encode payload: %v\n", err)
			return nil, false
		}
	}
	resp, err := http.Post(baseURL+path, "application/json", &buf)
	if err != nil {
		fmt.Printf("POST %s: %v\n", path, err)
		return nil, false
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		fmt.Printf("POST %s: status %d: %s\n", path, resp.StatusCode, body)
		return nil, false
	}
	return body, true
}

func get(path string) ([]byte, bool) {
	resp, err := http.Get(baseURL + path)
	if err != nil {
		fmt.Printf("GET %s: %v\n", path, err)
		return nil, false
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		fmt.Printf("GET %s: status %d: %s\n", path, resp.StatusCode, body)
		return nil, false
	}
	return body, true
}
