package bench

// Efficiency relates a workload's throughput to a power draw, usually the
// simulated mean power for an assumed activity level.
type Efficiency struct {
	OpsPerSecond float64
	EnergyJ      float64
	OpsPerJoule  float64
}

// AnalyzeEfficiency derives throughput and energy efficiency from a
// workload result and an average power draw in watts. Energy is
// power times elapsed seconds. A zero elapsed time yields a zero
// Efficiency; a non-positive power yields zero energy figures.
func AnalyzeEfficiency(res Result, avgPowerW float64) Efficiency {
	seconds := res.Elapsed.Seconds()
	if seconds <= 0 {
		return Efficiency{}
	}

	eff := Efficiency{
		OpsPerSecond: float64(res.Operations) / seconds,
	}
	if avgPowerW > 0 {
		eff.EnergyJ = avgPowerW * seconds
		eff.OpsPerJoule = float64(res.Operations) / eff.EnergyJ
	}
	return eff
}
