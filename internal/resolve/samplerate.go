package resolve

import (
	"strconv"
	"strings"
)

// maxSampleRateAttempts bounds the re-prompt loop. After the budget is
// spent, performance monitoring is left disabled instead of asking
// forever.
const maxSampleRateAttempts = 3

// resolveSampleRate asks for a traces sample rate. Blank input means
// "leave performance monitoring disabled". Inputs that do not parse, or
// that fall outside [0, 1], are re-prompted with a message naming the
// actual problem.
func (r *Resolver) resolveSampleRate() (*float64, error) {
	for attempt := 1; attempt <= maxSampleRateAttempts; attempt++ {
		raw, err := r.prompt.Input("Traces sample rate (0.0-1.0, blank to disable)", "0.2", "")
		if err != nil {
			return nil, err
		}

		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil, nil
		}

		rate, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			r.logger.Error("%q is not a number", trimmed)
			continue
		}
		if rate < 0 || rate > 1 {
			r.logger.Error("Sample rate must be between 0.0 and 1.0, got %v", rate)
			continue
		}
		return &rate, nil
	}

	r.logger.Warn("Leaving performance monitoring disabled after %d invalid inputs", maxSampleRateAttempts)
	return nil, nil
}
