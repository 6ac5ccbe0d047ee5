package energy

// Adjustment perturbs one named feature: value = value*Factor + Offset.
// A zero-effect adjustment has Factor 1 and Offset 0.
type Adjustment struct {
	Feature string
	Factor  float64
	Offset  float64
}

// Scenario is a named set of adjustments applied to a baseline vector.
// Features a scenario does not mention keep their baseline values.
type Scenario struct {
	Name        string
	Adjustments []Adjustment
}

// ScenarioResult reports predicted power for one scenario against the baseline.
type ScenarioResult struct {
	Scenario         string
	BaselinePowerW   float64
	PredictedPowerW  float64
	AbsoluteChangeW  float64
	PercentChange    float64   // relative to baseline; 0 when baseline power is 0
	AdjustedFeatures []float64 // in the model's feature order
}

// WhatIf predicts power for each scenario's adjusted copy of the baseline
// vector. Baseline power is predicted once and reused across all scenarios
// so changes are comparable. Adjustments apply in order on a copy of the
// baseline; a scenario naming a feature outside the model's ordering fails
// the whole call with UnknownFeatureError.
func (m *Model) WhatIf(baseline []float64, scenarios []Scenario) ([]ScenarioResult, error) {
	if !m.trained {
		return nil, &NotTrainedError{Op: "what_if"}
	}
	if len(baseline) != len(m.features) {
		return nil, &ShapeMismatchError{Got: len(baseline), Want: len(m.features)}
	}

	index := make(map[string]int, len(m.features))
	for i, name := range m.features {
		index[name] = i
	}

	baselinePower, err := m.PredictOne(baseline)
	if err != nil {
		return nil, err
	}

	results := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		adjusted := append([]float64(nil), baseline...)
		for _, adj := range sc.Adjustments {
			j, ok := index[adj.Feature]
			if !ok {
				return nil, &UnknownFeatureError{Scenario: sc.Name, Feature: adj.Feature}
			}
			adjusted[j] = adjusted[j]*adj.Factor + adj.Offset
		}

		predicted, err := m.PredictOne(adjusted)
		if err != nil {
			return nil, err
		}

		change := predicted - baselinePower
		pct := 0.0
		if baselinePower != 0 {
			pct = change / baselinePower * 100
		}
		results = append(results, ScenarioResult{
			Scenario:         sc.Name,
			BaselinePowerW:   baselinePower,
			PredictedPowerW:  predicted,
			AbsoluteChangeW:  change,
			PercentChange:    pct,
			AdjustedFeatures: adjusted,
		})
	}
	return results, nil
}
