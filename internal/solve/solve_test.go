package solve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeasibleStatusesRecognizesOptimalAndFeasible(t *testing.T) {
	assert.True(t, feasibleStatuses["OPTIMAL"])
	assert.True(t, feasibleStatuses["FEASIBLE"])
	assert.False(t, feasibleStatuses["INFEASIBLE"])
	assert.False(t, feasibleStatuses["UNKNOWN"])
}

func TestResultZeroValueHasNoSolutions(t *testing.T) {
	var r Result
	assert.Empty(t, r.Solutions)
	assert.Empty(t, r.Status)
}
