package messages

import "time"

type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// SensorReading is the inbound payload published by devices on
// sensor/data/{device} and accepted by POST /readings. A zero timestamp
// means "now" on receipt.
type SensorReading struct {
	DeviceID          string                 `json:"device_id"`
	Timestamp         time.Time              `json:"timestamp"`
	Temperature       *Measurement           `json:"temperature,omitempty"`
	Humidity          *Measurement           `json:"humidity,omitempty"`
	CO2               *Measurement           `json:"co2,omitempty"`
	AdditionalSensors map[string]Measurement `json:"additional_sensors,omitempty"`
}

// ReadingRejectedEvent is published on sensor/rejected/{device} when an
// inbound reading fails validation. Timestamp is nil when the reading
// carried none.
type ReadingRejectedEvent struct {
	DeviceID   string     `json:"device_id"`
	Reason     string     `json:"reason"`
	Error      string     `json:"error"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	ReceivedAt time.Time  `json:"received_at"`
}
