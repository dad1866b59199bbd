package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"darksky-sensors/host"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the sensor service")
	entityID := flag.String("entity", "", "Only show this entity (and its history when the recorder is enabled)")
	flag.Parse()

	fmt.Println("Dark Sky Sensors Client")
	fmt.Println("=======================")

	client := &http.Client{Timeout: 10 * time.Second}

	if *entityID == "" {
		var states []host.State
		if err := getJSON(client, fmt.Sprintf("%s/api/states", *baseURL), &states); err != nil {
			fmt.Printf("Error fetching states: %v\n", err)
			os.Exit(1)
		}

		if len(states) == 0 {
			fmt.Println("No entities available yet. Try again later.")
			return
		}

		for _, s := range states {
			unit, _ := s.Attributes["unit_of_measurement"].(string)
			fmt.Printf("%-55s %s %s\n", s.EntityID, s.State, unit)
		}
		return
	}

	var state host.State
	if err := getJSON(client, fmt.Sprintf("%s/api/states/%s", *baseURL, *entityID), &state); err != nil {
		fmt.Printf("Error fetching %s: %v\n", *entityID, err)
		os.Exit(1)
	}
	prettyJSON, _ := json.MarshalIndent(state, "", "  ")
	fmt.Printf("\nState of %s:\n%s\n", *entityID, string(prettyJSON))

	var history struct {
		States []host.State `json:"states"`
	}
	if err := getJSON(client, fmt.Sprintf("%s/api/history/%s?limit=10", *baseURL, *entityID), &history); err != nil {
		fmt.Printf("\nNo history available: %v\n", err)
		return
	}
	fmt.Printf("\nLast %d recorded states:\n", len(history.States))
	for _, s := range history.States {
		fmt.Printf("  %s  %s\n", s.LastUpdated.Format(time.RFC3339), s.State)
	}
}

// getJSON fetches url and decodes a 200 response into v
func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return json.Unmarshal(body, v)
}
