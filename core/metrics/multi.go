package metrics

// MultiSink fanouts scheduling events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCompute forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordCompute(ev ComputeEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordCompute(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordScenario forwards scenario events when supported by the sink.
func (m *MultiSink) RecordScenario(ev ScenarioEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ScenarioRecorder); ok {
			if err := rec.RecordScenario(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSimulation forwards simulation events when supported by the sink.
func (m *MultiSink) RecordSimulation(ev SimulationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SimulationRecorder); ok {
			if err := rec.RecordSimulation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordValidation forwards validation events when supported by the sink.
func (m *MultiSink) RecordValidation(ev ValidationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ValidationRecorder); ok {
			if err := rec.RecordValidation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
