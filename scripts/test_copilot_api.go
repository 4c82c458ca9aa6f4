package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Token for a user with role "analyst". Generate one with a matching
// JWT_SECRET before running.
var userToken = os.Getenv("COPILOT_TEST_TOKEN")

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Copilot API Test\n")

	if userToken == "" {
		color.Red("COPILOT_TEST_TOKEN is not set")
		os.Exit(1)
	}

	// 1. Fresh chat without a session id
	color.Yellow("\n1. POST /copilot/v1/chat (new session)")
	chatReq := map[string]interface{}{
		"query": "Why was revenue flagged as anomalous this week?",
		"context": map[string]interface{}{
			"page":     "/dashboards/revenue",
			"pageType": "dashboard",
		},
	}
	resp, body, err := sendRequest("POST", "/copilot/v1/chat", userToken, chatReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var chatResp map[string]interface{}
	json.Unmarshal(body, &chatResp)
	prettyPrint(chatResp)

	sessionID, _ := chatResp["sessionId"].(string)

	// 2. Follow-up on the same session
	color.Yellow("\n2. POST /copilot/v1/chat (follow-up)")
	if sessionID == "" {
		color.Red("Skipping follow-up: no session id returned")
	} else {
		followReq := map[string]interface{}{
			"sessionId": sessionID,
			"query":     "Summarize the drivers behind that anomaly",
		}
		resp, body, err = sendRequest("POST", "/copilot/v1/chat", userToken, followReq)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		var followResp map[string]interface{}
		json.Unmarshal(body, &followResp)
		prettyPrint(followResp)
	}

	// 3. List sessions
	color.Yellow("\n3. GET /copilot/v1/sessions")
	resp, body, err = sendRequest("GET", "/copilot/v1/sessions", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var listResp []map[string]interface{}
	json.Unmarshal(body, &listResp)
	prettyPrint(listResp)

	// 4. Session detail with full transcript
	color.Yellow("\n4. GET /copilot/v1/sessions/:id")
	if sessionID == "" {
		color.Red("Skipping detail: no session id")
		return
	}
	resp, body, err = sendRequest("GET", "/copilot/v1/sessions/"+sessionID, userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var detailResp map[string]interface{}
	json.Unmarshal(body, &detailResp)
	prettyPrint(detailResp)

	color.Cyan("\n✅ Done")
}
