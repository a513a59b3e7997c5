package notify

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremetrics "github.com/taktflow/taktd/core/metrics"
)

type fakeToken struct{}

func (fakeToken) Wait() bool                     { return true }
func (fakeToken) WaitTimeout(time.Duration) bool { return true }
func (fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (fakeToken) Error() error { return nil }

type fakeClient struct {
	mu       sync.Mutex
	messages map[string][]byte
}

func (f *fakeClient) IsConnected() bool      { return true }
func (f *fakeClient) Connect() paho.Token    { return fakeToken{} }
func (f *fakeClient) Disconnect(uint)        {}
func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages == nil {
		f.messages = make(map[string][]byte)
	}
	f.messages[topic] = payload.([]byte)
	return fakeToken{}
}

func (f *fakeClient) payload(topic string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.messages[topic]
	return p, ok
}

func withFakeClient(t *testing.T) *fakeClient {
	t.Helper()
	fc := &fakeClient{}
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return fc }
	t.Cleanup(func() { newMQTTClient = orig })
	return fc
}

func TestDisabledConfigReturnsNop(t *testing.T) {
	n, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := n.(NopNotifier); !ok {
		t.Fatalf("expected NopNotifier, got %T", n)
	}
}

func TestPlanComputedPublishesJSON(t *testing.T) {
	fc := withFakeClient(t)
	n, err := New(Config{Enabled: true, Broker: "tcp://localhost:1883", TopicPrefix: "site42"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer n.Close()

	ev := coremetrics.ComputeEvent{PlanID: "p1", Zones: 6, Wagons: 7, TotalPeriods: 66, Time: time.Now()}
	if err := n.PlanComputed(ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	raw, ok := fc.payload("site42/plans/computed")
	if !ok {
		t.Fatalf("no message on plans/computed, got %v", fc.messages)
	}
	var msg planComputedMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.PlanID != "p1" || msg.TotalPeriods != 66 || msg.EventID == "" {
		t.Fatalf("bad message %+v", msg)
	}
}

func TestSimulationCompletedPublishesJSON(t *testing.T) {
	fc := withFakeClient(t)
	n, err := New(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer n.Close()

	ev := coremetrics.SimulationEvent{PlanID: "p2", Iterations: 1000, P95Days: 74, OnTimeProbability: 61.5}
	if err := n.SimulationCompleted(ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	raw, ok := fc.payload("taktflow/simulations/completed")
	if !ok {
		t.Fatalf("no message on simulations/completed")
	}
	var msg simulationCompletedMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Iterations != 1000 || msg.P95Days != 74 {
		t.Fatalf("bad message %+v", msg)
	}
}
