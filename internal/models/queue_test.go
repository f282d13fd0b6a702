package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueCheckInvariants(t *testing.T) {
	now := time.Now()
	later := now.Add(10 * time.Minute)

	cases := []struct {
		name    string
		q       Queue
		wantErr bool
	}{
		{"waiting clean", Queue{Status: StatusWaiting}, false},
		{"waiting with start", Queue{Status: StatusWaiting, StartTime: &now}, true},
		{"serving", Queue{Status: StatusServing, StartTime: &now}, false},
		{"serving without start", Queue{Status: StatusServing}, true},
		{"serving with end", Queue{Status: StatusServing, StartTime: &now, EndTime: &later}, true},
		{"completed", Queue{Status: StatusCompleted, StartTime: &now, EndTime: &later}, false},
		{"completed without end", Queue{Status: StatusCompleted, StartTime: &now}, true},
		{"canceled from waiting", Queue{Status: StatusCanceled, EndTime: &later}, false},
		{"unknown", Queue{Status: "PAUSED"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.CheckInvariants()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatQueueCode(t *testing.T) {
	assert.Equal(t, "KS007", FormatQueueCode("KS", 7))
	assert.Equal(t, "Q120", FormatQueueCode("", 120))
}

func TestStatusCountsAdd(t *testing.T) {
	var c StatusCounts
	c.Add(StatusWaiting, 2)
	c.Add(StatusCompleted, 3)
	c.Add("BOGUS", 9)

	assert.Equal(t, StatusCounts{Waiting: 2, Completed: 3, Total: 5}, c)
}
