package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// locationMessage matches what the check-in server subscribes to.
type locationMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
	Error     int     `json:"error,omitempty"`
}

const (
	targetLat = 35.8115739
	targetLon = 139.162354
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := getEnv("MQTT_BROKER", "tcp://localhost:1883")
	deviceID := getEnv("DEVICE_ID", "kiosk-1")

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("attendance-device-" + deviceID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	topic := fmt.Sprintf("/attendance/device/%s/location", deviceID)
	log.Printf("connected to %s, publishing to %s every %ds...", broker, topic, intervalSec)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		msg := locationMessage{Timestamp: time.Now().UnixMilli()}

		switch r := rand.Float64(); {
		case r < 0.1:
			// user denied the permission prompt
			msg.Error = 1
		case r < 0.6:
			msg.Latitude = targetLat + (rand.Float64()-0.5)*0.002 // ~100m drift
			msg.Longitude = targetLon + (rand.Float64()-0.5)*0.002
			msg.Accuracy = 5 + rand.Float64()*15
		default:
			msg.Latitude = targetLat + (rand.Float64()-0.5)*0.2
			msg.Longitude = targetLon + (rand.Float64()-0.5)*0.2
			msg.Accuracy = 20 + rand.Float64()*80
		}

		payload, _ := json.Marshal(msg)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
