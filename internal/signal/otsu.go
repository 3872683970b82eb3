package signal

// hillClimbOtsu finds a threshold maximizing between-class variance
// σ²_B(k) = (μ_T·ω(k) − μ(k))² / (ω(k)·(1 − ω(k))) by hill climbing
// from k=128 to the nearest local maximum, rather than the exhaustive
// sweep core.OtsuThreshold performs — the adaptive detector calls this
// once per hedging step, so memoized incremental evaluation matters
// more here than in the one-shot binarization path (spec.md §4.6 step 1).
func hillClimbOtsu(hist [256]int) int {
	total := 0
	for _, c := range hist {
		total += c
	}
	if total == 0 {
		return 0
	}

	p := make([]float64, 256)
	for i, c := range hist {
		p[i] = float64(c) / float64(total)
	}

	muT := 0.0
	for i, pi := range p {
		muT += float64(i) * pi
	}

	cumOmega := make([]float64, 256)
	cumMu := make([]float64, 256)
	omega, mu := 0.0, 0.0
	for k := 0; k < 256; k++ {
		omega += p[k]
		mu += float64(k) * p[k]
		cumOmega[k] = omega
		cumMu[k] = mu
	}

	memo := make(map[int]float64)
	score := func(k int) float64 {
		if v, ok := memo[k]; ok {
			return v
		}
		w := cumOmega[k]
		m := cumMu[k]
		var v float64
		if w == 0 || w == 1 {
			v = -1
		} else {
			v = (muT*w - m) * (muT*w - m) / (w * (1 - w))
		}
		memo[k] = v
		return v
	}

	current := 128
	for {
		currentScore := score(current)
		bestNeighbor := current
		bestScore := currentScore

		for _, n := range [2]int{current - 1, current + 1} {
			if n < 0 || n > 255 {
				continue
			}
			if s := score(n); s > bestScore {
				bestScore = s
				bestNeighbor = n
			}
		}

		if bestNeighbor == current {
			return current
		}
		current = bestNeighbor
	}
}
