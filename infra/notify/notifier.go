// Package notify publishes scheduling events to an MQTT broker so downstream
// consumers (dashboards, site displays) can react to plan changes without
// polling the API.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremetrics "github.com/taktflow/taktd/core/metrics"
	"github.com/taktflow/taktd/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT notifier.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults fills unset fields with usable values.
func (c *Config) SetDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = "taktflow"
	}
	if c.ClientID == "" {
		c.ClientID = "taktd-" + uuid.NewString()[:8]
	}
}

// Notifier publishes scheduling events.
type Notifier interface {
	PlanComputed(ev coremetrics.ComputeEvent) error
	SimulationCompleted(ev coremetrics.SimulationEvent) error
	Close()
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) PlanComputed(coremetrics.ComputeEvent) error           { return nil }
func (NopNotifier) SimulationCompleted(coremetrics.SimulationEvent) error { return nil }
func (NopNotifier) Close()                                                {}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoNotifier publishes events as JSON messages using Eclipse Paho.
type PahoNotifier struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger
}

// New connects to the broker described by cfg. A disabled config returns the
// NopNotifier without dialing.
func New(cfg Config) (Notifier, error) {
	if !cfg.Enabled {
		return NopNotifier{}, nil
	}
	cfg.SetDefaults()

	log := logger.New("notify")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &PahoNotifier{cli: c, prefix: cfg.TopicPrefix, qos: cfg.QoS, log: log}, nil
}

type planComputedMsg struct {
	EventID      string    `json:"event_id"`
	PlanID       string    `json:"plan_id"`
	Zones        int       `json:"zones"`
	Wagons       int       `json:"wagons"`
	TotalPeriods int       `json:"total_periods"`
	Warnings     int       `json:"warnings"`
	Critical     int       `json:"critical"`
	Time         time.Time `json:"time"`
}

// PlanComputed publishes a grid computation on <prefix>/plans/computed.
func (n *PahoNotifier) PlanComputed(ev coremetrics.ComputeEvent) error {
	msg := planComputedMsg{
		EventID:      uuid.NewString(),
		PlanID:       ev.PlanID,
		Zones:        ev.Zones,
		Wagons:       ev.Wagons,
		TotalPeriods: ev.TotalPeriods,
		Warnings:     ev.Warnings,
		Critical:     ev.Critical,
		Time:         ev.Time,
	}
	return n.publish(n.prefix+"/plans/computed", msg)
}

type simulationCompletedMsg struct {
	EventID           string    `json:"event_id"`
	PlanID            string    `json:"plan_id"`
	Iterations        int       `json:"iterations"`
	VariancePct       float64   `json:"variance_pct"`
	P50Days           int       `json:"p50_days"`
	P95Days           int       `json:"p95_days"`
	OnTimeProbability float64   `json:"on_time_probability"`
	Time              time.Time `json:"time"`
}

// SimulationCompleted publishes a Monte Carlo result on <prefix>/simulations/completed.
func (n *PahoNotifier) SimulationCompleted(ev coremetrics.SimulationEvent) error {
	msg := simulationCompletedMsg{
		EventID:           uuid.NewString(),
		PlanID:            ev.PlanID,
		Iterations:        ev.Iterations,
		VariancePct:       ev.VariancePct,
		P50Days:           ev.P50Days,
		P95Days:           ev.P95Days,
		OnTimeProbability: ev.OnTimeProbability,
		Time:              ev.Time,
	}
	return n.publish(n.prefix+"/simulations/completed", msg)
}

func (n *PahoNotifier) publish(topic string, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	token := n.cli.Publish(topic, n.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		n.log.Errorf("publish %s: %v", topic, token.Error())
		return token.Error()
	}
	return nil
}

// Close disconnects from the broker.
func (n *PahoNotifier) Close() {
	n.cli.Disconnect(250)
}
