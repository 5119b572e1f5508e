package arcodec

// Kalman is a scalar random-walk smoother: a forward Kalman filter followed
// by a fixed-interval (Rauch-Tung-Striebel) backward pass.
type Kalman struct {
	SeqVar   float64 // process variance between frames
	InitMean float64
	InitVar  float64
}

// NewKalman returns a smoother with the given process variance and prior.
func NewKalman(seqVar, initMean, initVar float64) *Kalman {
	return &Kalman{SeqVar: seqVar, InitMean: initMean, InitVar: initVar}
}

// Smooth returns the smoothed mean and variance for each observation. Both
// passes run strictly in frame order.
func (k *Kalman) Smooth(obs []Observation) (mean, variance []float64) {
	n := len(obs)
	mean = make([]float64, n)
	variance = make([]float64, n)
	if n == 0 {
		return mean, variance
	}

	// frame 0 blends the prior with the first observation
	o := obs[0]
	mean[0] = (o.Pitch*k.InitVar + o.Variance*k.InitMean) / (o.Variance + k.InitVar)
	variance[0] = o.Variance * k.InitVar / (o.Variance + k.InitVar)

	for i := 1; i < n; i++ {
		o := obs[i]
		pred := variance[i-1] + k.SeqVar
		mean[i] = (o.Pitch*pred + mean[i-1]*o.Variance) / (o.Variance + pred)
		variance[i] = o.Variance * pred / (o.Variance + pred)
	}

	for i := n - 2; i >= 0; i-- {
		d := variance[i] + k.SeqVar
		if d == 0 {
			// no process noise and a certain estimate: nothing to blend
			mean[i] = mean[i+1]
			variance[i] = variance[i+1]
			continue
		}
		mean[i] = (mean[i+1]*variance[i] + mean[i]*k.SeqVar) / d
		j := variance[i] / d
		variance[i] = j * (j*variance[i+1] + k.SeqVar)
	}
	return mean, variance
}
